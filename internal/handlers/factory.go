package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"gotours/internal/middleware"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// crudHandlers builds the standard list/get/create/update/delete endpoints
// for one resource on top of its repository. Per-resource behavior hangs
// off the hooks: parentFilter scopes nested routes, prepare mutates the
// decoded create body, expand loads related records before rendering.
type crudHandlers[T any] struct {
	repo     interfaces.Resource[T]
	resource string

	// parentFilter derives a pre-filter from route params, e.g. the
	// nested tour id on /tours/:tourId/reviews.
	parentFilter func(c *gin.Context) bson.M

	// prepare runs on the decoded document before Create persists it.
	prepare func(c *gin.Context, doc *T) error

	// expand loads related records onto fetched documents.
	expand func(ctx context.Context, docs ...*T) error

	// sanitize filters and checks the decoded update body before it is
	// persisted. Server-owned fields (rating stats, slugs, credential
	// state) are stripped here so a PATCH can never reach them.
	sanitize func(updates map[string]interface{}) (map[string]interface{}, error)
}

func (h *crudHandlers[T]) preFilter(c *gin.Context) bson.M {
	if h.parentFilter == nil {
		return nil
	}
	return h.parentFilter(c)
}

// GetAll lists the resource through the query translator: filtering,
// sorting, field projection and pagination all come from the URL.
func (h *crudHandlers[T]) GetAll(c *gin.Context) {
	features := utils.NewAPIFeatures(c.Request.URL.Query()).
		Filter().
		Sort().
		LimitFields().
		Paginate()
	if err := features.Err(); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	// An explicitly requested page past the collection is a 404, not an
	// empty list.
	if skip := features.Options.Skip; skip != nil && *skip > 0 {
		total, err := h.repo.Count(c.Request.Context(), h.preFilter(c), features)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		if *skip >= total {
			middleware.AbortWithError(c, utils.NewAppError("This page does not exist", http.StatusNotFound))
			return
		}
	}

	docs, err := h.repo.FindMany(c.Request.Context(), h.preFilter(c), features)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if h.expand != nil {
		if err := h.expand(c.Request.Context(), docs...); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
	}

	utils.SuccessListResponse(c, len(docs), gin.H{"data": docs})
}

func (h *crudHandlers[T]) GetOne(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	doc, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if h.expand != nil {
		if err := h.expand(c.Request.Context(), doc); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
	}

	utils.SuccessResponse(c, gin.H{"data": doc})
}

func (h *crudHandlers[T]) CreateOne(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	if h.prepare != nil {
		if err := h.prepare(c, &doc); err != nil {
			middleware.AbortWithError(c, err)
			return
		}
	}

	created, err := h.repo.Create(c.Request.Context(), &doc)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"data": created})
}

func (h *crudHandlers[T]) UpdateOne(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}
	delete(updates, "id")
	delete(updates, "_id")
	if len(updates) == 0 {
		middleware.AbortWithError(c, utils.ValidationError("Request body must not be empty"))
		return
	}

	if h.sanitize != nil {
		updates, err = h.sanitize(updates)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		if len(updates) == 0 {
			middleware.AbortWithError(c, utils.ValidationError("Request body contains no updatable fields"))
			return
		}
	}

	updated, err := h.repo.UpdateByID(c.Request.Context(), id, updates)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"data": updated})
}

func (h *crudHandlers[T]) DeleteOne(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if err := h.repo.DeleteByID(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func firstFile(headers []*multipart.FileHeader) *multipart.FileHeader {
	if len(headers) == 0 {
		return nil
	}
	return headers[0]
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, utils.ValidationError("Invalid ID: " + c.Param(name))
	}
	return id, nil
}
