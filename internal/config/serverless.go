package config

import (
	"github.com/spf13/viper"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// loadServerless reads the variables the Lambda runtime sets
func loadServerless(v *viper.Viper) ServerlessConfig {
	functionName := v.GetString("AWS_LAMBDA_FUNCTION_NAME")
	return ServerlessConfig{
		IsLambda:     functionName != "",
		FunctionName: functionName,
		Region:       v.GetString("AWS_REGION"),
		Stage:        v.GetString("STAGE"),
	}
}

// DeploymentMode returns "serverless" when running inside Lambda, "server" otherwise
func (c *Config) DeploymentMode() string {
	if c.Serverless.IsLambda {
		return "serverless"
	}
	return "server"
}
