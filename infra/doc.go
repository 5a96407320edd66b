// Package infra contains technical adapters such as metrics exporters and
// loggers. These packages depend only on the interfaces defined in the core
// packages.
package infra
