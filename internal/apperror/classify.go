package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres 唯一约束冲突
const uniqueViolationCode = "23505"

// 冲突详情形如: Key (email)=(dup@example.com) already exists.
var keyValueRe = regexp.MustCompile(`\(([^)]+)\)=\(([^)]+)\)`)

// From 将存储层和外部协作方的错误翻译为 AppError，按优先级匹配:
// 非法标识符 > 唯一键冲突 > 字段校验 > token 过期 > token 非法 > 未找到 > 其他
func From(err error) *AppError {
	var (
		invalidID *InvalidIDError
		pgErr     *pgconn.PgError
		ve        *ValidationError
		fieldErrs validator.ValidationErrors
		appErr    *AppError
	)

	switch {
	case errors.As(err, &invalidID):
		return New(fmt.Sprintf("Invalid %s %s.", invalidID.Field, invalidID.Value), http.StatusBadRequest)

	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode:
		return duplicateKey(pgErr)

	case errors.Is(err, gorm.ErrDuplicatedKey):
		// translated sentinel, 冲突详情已丢失
		return New("Duplicate field value. Please use another value!", http.StatusBadRequest)

	case errors.As(err, &ve):
		return &AppError{Code: http.StatusForbidden, Message: ve.Error(), Operational: true}

	case errors.As(err, &fieldErrs):
		messages := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			messages[i] = fe.Error()
		}
		return &AppError{Code: http.StatusForbidden, Message: strings.Join(messages, ". "), Operational: true}

	case errors.Is(err, jwt.ErrTokenExpired):
		return New("Token Expired. Please login again!", http.StatusUnauthorized)

	case isTokenError(err):
		return New("Invalid Token or has expired.", http.StatusUnauthorized)

	case errors.Is(err, gorm.ErrRecordNotFound):
		return New("Document Not Found!", http.StatusNotFound)

	case errors.As(err, &appErr):
		return appErr
	}

	return &AppError{
		Code:        http.StatusInternalServerError,
		Message:     "Something went very wrong!",
		Operational: false,
	}
}

func duplicateKey(pgErr *pgconn.PgError) *AppError {
	value := pgErr.ConstraintName
	if m := keyValueRe.FindStringSubmatch(pgErr.Detail); len(m) == 3 {
		value = m[2]
	}
	return New(fmt.Sprintf("Duplicate field value %s. Please use another value!", value), http.StatusBadRequest)
}

func isTokenError(err error) bool {
	return errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenNotValidYet) ||
		errors.Is(err, jwt.ErrTokenInvalidClaims) ||
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued)
}
