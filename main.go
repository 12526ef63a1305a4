package main

import "redline/internal/app"

// @title           Legal Redline API
// @version         1.0
// @description     Auth and contract-analysis backend for the Legal Redline app.
// @BasePath        /
func main() {
	app.Run()
}
