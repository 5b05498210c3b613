// Package openapi turns the component schemas of an OpenAPI 3 document into a
// schema document whose top-level "$ref" selects one model, so CMS servers
// that publish OpenAPI can feed the same sanitization pipeline as plain JSON
// Schema producers. Parsing is delegated to kin-openapi.
package openapi
