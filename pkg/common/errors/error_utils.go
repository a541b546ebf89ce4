package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// region 错误处理工具函数

// WrapGormError 将底层数据库错误转变为业务可识别错误
// 参数说明：
//   - rawErr: 原始GORM/驱动错误
//
// 返回值：
//   - error: 标准化错误类型
//
// The only unique indexes are users.username and users.email, and the only
// foreign key is posts.user_id, which is why constraint errors map straight
// onto credential and owner errors.
func WrapGormError(rawErr error) error {
	if rawErr == nil {
		return nil
	}

	// 处理预定义的GORM错误
	switch {
	case errors.Is(rawErr, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(rawErr, gorm.ErrDuplicatedKey):
		return ErrDuplicateCredential
	case errors.Is(rawErr, gorm.ErrForeignKeyViolated):
		return ErrUserNotFound
	}

	// 处理MySQL驱动错误
	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // 唯一性约束冲突
			return ErrDuplicateCredential
		case 1452: // 外键约束失败
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: mysql %d: %s", ErrStoreUnavailable, mysqlErr.Number, mysqlErr.Message)
	}

	var pgErr *pgconn.PgError
	if errors.As(rawErr, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateCredential
		case "23503":
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: postgres %s: %s", ErrStoreUnavailable, pgErr.Code, pgErr.Message)
	}

	var sqliteErr sqlite3.Error
	if errors.As(rawErr, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicateCredential
		case sqlite3.ErrConstraintForeignKey:
			return ErrUserNotFound
		}
	}

	// 兜底处理：附加原始错误信息
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, rawErr)
}

// IsDuplicateError 判断是否为重复记录错误
func IsDuplicateError(err error) bool {
	return errors.Is(WrapGormError(err), ErrDuplicateCredential)
}

// HTTPStatus maps an error onto the response status used for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrPolicyViolation), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateCredential):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsUserError reports whether the caller can fix err by resubmitting the form.
func IsUserError(err error) bool {
	switch HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnauthorized:
		return true
	default:
		return false
	}
}

// Message returns the text safe to show to the client.
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
