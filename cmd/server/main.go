package main

import "github.com/adanyl0v/go-todo-lambda/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.InitTaskStore()
	defer app.CloseTaskStore()

	app.MustListenAndServeHTTP()
}
