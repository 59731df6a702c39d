package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// PathUUID binds the named path parameter as a UUID.
func PathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}
