package app

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/adanyl0v/go-todo-lambda/internal/delivery/lambda"
	"github.com/adanyl0v/go-todo-lambda/internal/delivery/router"
)

// StartLambda hands control to the Lambda runtime and never returns.
func StartLambda() {
	taskRouter := router.New(globalLogger, globalTaskStore)
	handler := lambda.NewHandler(globalLogger, taskRouter)

	globalLogger.Info().Msg("starting lambda handler")
	awslambda.Start(handler.Handle)
}
