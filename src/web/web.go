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

// Package web serves the matrix page and its embedded assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eisenhower/src/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ConfirmWindow is how long a delete stays armed in the browser.
const ConfirmWindow = 3 * time.Second

type pageData struct {
	Title           string
	Subtitle        string
	Quadrants       []model.QuadrantInfo
	DefaultQuadrant model.Quadrant
	ConfirmMillis   int64
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Register installs the page templates on engine and mounts / and /static.
func Register(engine *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	engine.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	engine.StaticFS("/static", http.FS(static))
	engine.GET("/", handleIndex)
	return nil
}

func handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Title:           "Eisenhower Matrix",
		Subtitle:        "Prioritize your tasks based on urgency and importance",
		Quadrants:       model.Quadrants(),
		DefaultQuadrant: model.DefaultQuadrant,
		ConfirmMillis:   ConfirmWindow.Milliseconds(),
	})
}
