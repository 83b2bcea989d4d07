// Package providers holds the provider adapters. Each adapter lives in its
// own subpackage; devkit carries the scripted consumer and fixtures the
// adapter tests share.
package providers
