package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Team struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id"`
	Name         string               `json:"name" bson:"name"`
	Description  string               `json:"description,omitempty" bson:"description,omitempty"`
	SupervisorID primitive.ObjectID   `json:"supervisorId" bson:"supervisorId"`
	MemberIDs    []primitive.ObjectID `json:"memberIds" bson:"memberIds"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

var TeamIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("uniq_name").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "memberIds", Value: 1}},
		Options: options.Index().SetName("idx_memberIds"),
	},
}
