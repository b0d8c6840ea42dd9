package handlers

// @title Lambda Router API
// @version 1.0
// @description HTTP API served behind API Gateway through the lambda router and its gin adapter
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/your-org/lambda-router

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3333
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name session
// @tag.description Session and cookie operations

// @tag.name auth
// @tag.description Authentication operations

// @tag.name diagnostics
// @tag.description Request echo and static assets
