// Package core contains the social authentication domain contracts: the
// normalized Profile and Contact values, OAuth tokens, the handshake Session,
// provider configuration loading and the error taxonomy shared by provider
// adapters. Provider packages depend on core; core must not depend on any
// provider or transport package.
package core
