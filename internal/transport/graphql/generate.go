// Package graphql provides the GraphQL transport layer of the dictionary
// service. The executable schema and its field marshalers are generated by
// gqlgen from schema.graphqls; this package assembles the HTTP server around
// them and maps domain errors to GraphQL error codes.
package graphql

//go:generate go run github.com/99designs/gqlgen generate
