// Package web 内嵌前端静态页面
package web

import "embed"

//go:embed index.html login.html
var StaticFS embed.FS
