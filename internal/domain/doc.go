// Package domain contains the core model shared by the munson packages: the JSON:API wire
// types, the client configuration and the error taxonomy.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, or the filesystem. Infra/adapters map into/from these types.
package domain
