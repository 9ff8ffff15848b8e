package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/response"
)

// ListWriters
// @Summary 作者列表
// @Tags 书架
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.Writer}
// @Router /api/v1/writers [get]
func (h *Handler) ListWriters(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.shelf.ListWriters(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// CreateWriter
// @Summary 新建作者
// @Tags 书架
// @Accept json
// @Security BearerAuth
// @Param request body service.WriterInput true "作者"
// @Success 201 {object} response.Response{data=model.Writer}
// @Router /api/v1/writers [post]
func (h *Handler) CreateWriter(c *gin.Context) {
	var in service.WriterInput
	if !bind(c, &in) {
		return
	}
	w, err := h.shelf.CreateWriter(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, w)
}

// GetWriter 作者及其书目
// @Summary 作者详情
// @Tags 书架
// @Param id path string true "作者ID"
// @Success 200 {object} response.Response{data=model.Writer}
// @Router /api/v1/writers/{id} [get]
func (h *Handler) GetWriter(c *gin.Context) {
	w, err := h.shelf.GetWriter(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, w)
}

// UpdateWriter
// @Summary 修改作者
// @Tags 书架
// @Accept json
// @Security BearerAuth
// @Param id path string true "作者ID"
// @Param request body service.WriterInput true "作者"
// @Success 200 {object} response.Response{data=model.Writer}
// @Router /api/v1/writers/{id} [put]
func (h *Handler) UpdateWriter(c *gin.Context) {
	var in service.WriterInput
	if !bind(c, &in) {
		return
	}
	w, err := h.shelf.UpdateWriter(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, w)
}

// DeleteWriter 连同书目一起删除
// @Summary 删除作者
// @Tags 书架
// @Security BearerAuth
// @Param id path string true "作者ID"
// @Success 204
// @Router /api/v1/writers/{id} [delete]
func (h *Handler) DeleteWriter(c *gin.Context) {
	if err := h.shelf.DeleteWriter(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBooks
// @Summary 书目列表
// @Tags 书架
// @Param search query string false "书名模糊匹配"
// @Param author query string false "作者ID"
// @Param ordering query string false "title | publication_year，前缀 - 表示倒序"
// @Success 200 {object} response.Response{data=[]model.Book}
// @Failure 400 {object} response.Response
// @Router /api/v1/books [get]
func (h *Handler) ListBooks(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.shelf.ListBooks(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// CreateBook
// @Summary 新建书目
// @Tags 书架
// @Accept json
// @Security BearerAuth
// @Param request body service.BookInput true "书目"
// @Success 201 {object} response.Response{data=model.Book}
// @Failure 400 {object} response.Response
// @Router /api/v1/books [post]
func (h *Handler) CreateBook(c *gin.Context) {
	var in service.BookInput
	if !bind(c, &in) {
		return
	}
	b, err := h.shelf.CreateBook(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, b)
}

// GetBook
// @Summary 书目详情
// @Tags 书架
// @Param id path string true "书目ID"
// @Success 200 {object} response.Response{data=model.Book}
// @Router /api/v1/books/{id} [get]
func (h *Handler) GetBook(c *gin.Context) {
	b, err := h.shelf.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// UpdateBook
// @Summary 修改书目
// @Tags 书架
// @Accept json
// @Security BearerAuth
// @Param id path string true "书目ID"
// @Param request body service.BookInput true "书目"
// @Success 200 {object} response.Response{data=model.Book}
// @Router /api/v1/books/{id} [put]
func (h *Handler) UpdateBook(c *gin.Context) {
	var in service.BookInput
	if !bind(c, &in) {
		return
	}
	b, err := h.shelf.UpdateBook(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// DeleteBook
// @Summary 删除书目
// @Tags 书架
// @Security BearerAuth
// @Param id path string true "书目ID"
// @Success 204
// @Router /api/v1/books/{id} [delete]
func (h *Handler) DeleteBook(c *gin.Context) {
	if err := h.shelf.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
