package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"lambda-router/pkg/server"
)

func main() {
	runtime := server.NewRuntime(server.LoadFromEnvironment)
	awslambda.Start(runtime.Handler())
}
