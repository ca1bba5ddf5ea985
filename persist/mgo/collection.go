package mgo

import (
	"github.com/globalsign/mgo"
	"github.com/go-logr/logr"
)

type collection struct {
	*mgo.Collection
	log logr.Logger
}

func (c *collection) copySession() *collection {
	db := c.Database
	return &collection{
		Collection: db.Session.Copy().DB(db.Name).C(c.Name),
		log:        c.log,
	}
}

func (c *collection) closeSession() {
	c.Database.Session.Close()
}

type collectionOption func(*collection)

// WithLogger sets logger for the persister
func WithLogger(log logr.Logger) collectionOption {
	return func(c *collection) {
		c.log = log
	}
}
