// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

// Package api exposes the task store over JSON HTTP endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"eisenhower/src/logging"
	"eisenhower/src/model"
	"eisenhower/src/store"
)

// StatusResponse is served by GET /api/status.
type StatusResponse struct {
	StartTime time.Time `json:"start_time"`
	Uptime    string    `json:"uptime"`
	model.MatrixStats
}

// Handler serves the /api routes.
type Handler struct {
	store   store.Store
	started time.Time

	created  metric.Int64Counter
	updated  metric.Int64Counter
	deleted  metric.Int64Counter
	failures metric.Int64Counter
}

func NewHandler(s store.Store) *Handler {
	h := &Handler{store: s, started: time.Now()}
	h.created, _ = logging.InitializeInt64Counter("tasks_created_total", "Number of tasks created", "{task}")
	h.updated, _ = logging.InitializeInt64Counter("tasks_updated_total", "Number of task updates", "{task}")
	h.deleted, _ = logging.InitializeInt64Counter("tasks_deleted_total", "Number of tasks deleted", "{task}")
	h.failures, _ = logging.InitializeInt64Counter("tasks_failures_total", "Number of failed task requests", "{request}")
	return h
}

// Register mounts the task routes on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.GET("/tasks", h.handleList)
		api.POST("/tasks", h.handleCreate)
		api.GET("/tasks/:id", h.handleGet)
		api.PUT("/tasks/:id", h.handleUpdate)
		api.DELETE("/tasks/:id", h.handleDelete)
		api.GET("/status", h.handleStatus)
	}
}

// fail logs err and answers with a generic message. Store errors, bad input
// and missing ids all look the same to the client.
func (h *Handler) fail(c *gin.Context, logMsg, clientMsg string, err error) {
	ctx := c.Request.Context()
	logging.Error(ctx, logMsg, err, "method", c.Request.Method, "path", c.Request.URL.Path)
	add(ctx, h.failures)
	c.JSON(http.StatusInternalServerError, gin.H{"error": clientMsg})
}

func add(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func (h *Handler) handleList(c *gin.Context) {
	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, "Error fetching tasks", "Failed to fetch tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) handleCreate(c *gin.Context) {
	var req model.NewTask
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "Error decoding task", "Failed to create task", err)
		return
	}

	task, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "Error creating task", "Failed to create task", err)
		return
	}
	add(c.Request.Context(), h.created)
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) handleGet(c *gin.Context) {
	task, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Error fetching task", "Failed to fetch task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) handleUpdate(c *gin.Context) {
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, "Error decoding task update", "Failed to update task", err)
		return
	}

	task, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "Error updating task", "Failed to update task", err)
		return
	}
	add(c.Request.Context(), h.updated)
	c.JSON(http.StatusOK, task)
}

func (h *Handler) handleDelete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "Error deleting task", "Failed to delete task", err)
		return
	}
	add(c.Request.Context(), h.deleted)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *Handler) handleStatus(c *gin.Context) {
	stats, err := h.store.Counts(c.Request.Context())
	if err != nil {
		h.fail(c, "Error counting tasks", "Failed to query status", err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		StartTime:   h.started,
		Uptime:      time.Since(h.started).Truncate(time.Second).String(),
		MatrixStats: stats,
	})
}
