package api

import "github.com/gin-gonic/gin"

// errorBody は管理APIのエラーレスポンス（{"error": "<message>"}）
type errorBody struct {
	Error string `json:"error"`
}

// writeError はエラーレスポンスを書き込む。
func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, errorBody{Error: message})
}

// abortError はエラーレスポンスを書き込み、リクエスト処理を中断する。
func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: message})
}
