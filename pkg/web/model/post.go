package model

type PostReq struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}
