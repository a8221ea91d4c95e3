package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           formd API
// @version         1.0
// @description     Contact form intake and LINE reservation bot backend.
//
// @contact.name   formd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
