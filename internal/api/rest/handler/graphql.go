package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/graph"
	"github.com/palemoky/chinese-trainer/internal/logger"
)

// GraphQLHandler runs read-only GraphQL queries. POST takes a JSON body;
// GET reads ?query=, ?operationName= and a JSON encoded ?variables=.
// Documents that fail to parse or validate get 422 with the errors only.
func GraphQLHandler(exec *graph.Executor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req graph.Request
		if c.Request.Method == http.MethodGet {
			req.Query = c.Query("query")
			req.OperationName = c.Query("operationName")
			if vars := c.Query("variables"); vars != "" {
				if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
					respondError(c, http.StatusBadRequest, "variables must be a JSON object")
					return
				}
			}
		} else if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid GraphQL request")
			return
		}

		if req.Query == "" {
			respondError(c, http.StatusBadRequest, "field 'query' is required")
			return
		}

		resp, err := exec.Execute(c.Request.Context(), req)
		if err != nil {
			var list gqlerror.List
			if !errors.As(err, &list) {
				list = gqlerror.List{gqlerror.Wrap(err)}
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": list})
			return
		}

		if len(resp.Errors) > 0 {
			logger.Debug("GraphQL field errors", zap.String("operation", req.OperationName), zap.Error(resp.Errors))
		}
		c.JSON(http.StatusOK, resp)
	}
}
