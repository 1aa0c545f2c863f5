package model

import (
	"github.com/juju/errors"
	"github.com/kamva/mgm/v3"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func InitMongo(dbName, uri string) error {
	err := mgm.SetDefaultConfig(nil, dbName, options.Client().ApplyURI(uri))
	return errors.Trace(err)
}
