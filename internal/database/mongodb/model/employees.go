package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staffhub/internal/core"
)

type Employee struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id"`
	FirstName string              `json:"firstName" bson:"firstName"`
	LastName  string              `json:"lastName" bson:"lastName"`
	Email     string              `json:"email" bson:"email"`
	JobTitle  string              `json:"jobTitle,omitempty" bson:"jobTitle,omitempty"`
	Status    core.EmployeeStatus `json:"status" bson:"status"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// EmployeeSummary 精簡身分資訊，排班列表 populate 用
type EmployeeSummary struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName" bson:"lastName"`
	Email     string             `json:"email" bson:"email"`
}

func (s *EmployeeSummary) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

func (e *Employee) Summary() *EmployeeSummary {
	return &EmployeeSummary{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName, Email: e.Email}
}

// Schedulable 可被排班：在職且未被軟刪除
func (e *Employee) Schedulable() bool {
	return e.Status == core.EmployeeActive
}

var EmployeeIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_status"),
	},
}
