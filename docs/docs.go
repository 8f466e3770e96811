// Package docs holds the general API annotations for the scanvault service.
// Endpoint annotations live next to the handlers in internal/api/handlers.
//
//go:generate swag init -g docs.go -d ./,../internal/api/handlers -o ./swagger --parseDependency --parseInternal
package docs

// @title scanvault API
// @version 1.0
// @description Stores web scan results and searches them by title, domain, IP address,
// @description port, response body and response headers.
//
// @contact.name scanvault maintainers
// @contact.url https://github.com/anstrom/scanvault
//
// @license.name MIT
// @license.url https://github.com/anstrom/scanvault/blob/main/LICENSE
//
// @host localhost:5000
// @BasePath /
