package model

// 表单请求数据结构
type (
	RegisterReq struct {
		Username string `form:"username"`
		Email    string `form:"email"`
		Password string `form:"password"`
	}

	LoginReq struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}
)
