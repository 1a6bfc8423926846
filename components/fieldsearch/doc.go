// Package fieldsearch exposes the predefined field library as a small,
// mountable net/http handler that returns JSON search results for the
// builder's library panel.
//
// The handler answers GET and HEAD requests and supports query, limit and
// category parameters. Unknown categories are rejected with 400.
package fieldsearch
