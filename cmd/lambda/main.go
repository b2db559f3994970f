package main

import "github.com/adanyl0v/go-todo-lambda/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.InitTaskStore()
	app.StartLambda()
}
