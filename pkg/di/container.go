// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/recstore/pkg/api" //nolint:depguard
	"github.com/ssargent/recstore/pkg/storage"
)

// SnapshotOpener opens the snapshot archive at a directory
type SnapshotOpener func(dir string) (*storage.SnapshotStorage, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory  api.ServerFactory
	snapshotOpener SnapshotOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory:  api.NewServerFactory(),
		snapshotOpener: storage.NewSnapshotStorage,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// OpenSnapshots opens the snapshot archive at dir
func (c *Container) OpenSnapshots(dir string) (*storage.SnapshotStorage, error) {
	return c.snapshotOpener(dir)
}
