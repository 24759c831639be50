package main

import "projectzen/internal/app"

// @title           ProjectZen API
// @version         1.0
// @description     Проекты, канбан-задачи, комментарии, вложения и уведомления.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
