/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/casetrail/evidence-api/cmd"

// @title           CaseTrail Evidence API
// @version         1.0.0
// @description     A video evidence review API with conversational timeline analysis
// @termsOfService  http://swagger.io/terms/
// @contact.name    API Support
// @contact.url     https://github.com/casetrail/evidence-api
// @contact.email   support@example.com
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token identifying the investigator
func main() {
	cmd.Execute()
}
