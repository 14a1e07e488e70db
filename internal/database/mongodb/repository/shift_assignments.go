package repository

import (
	"context"
	"fmt"
	"time"

	"staffhub/internal/core"
	client "staffhub/internal/database/client"
	"staffhub/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ShiftAssignmentRepository struct {
	collection *mongo.Collection
}

func NewShiftAssignmentRepository(mongoClient *client.MongoClient) *ShiftAssignmentRepository {
	repository := &ShiftAssignmentRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBStaffhub)).Collection(string(core.MongoCollectionShiftAssignments)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *ShiftAssignmentRepository) ensureIndexes(contextValue context.Context) error {
	_, _ = repository.collection.Indexes().CreateMany(contextValue, model.ShiftAssignmentIndexes)
	return nil
}

func (repository *ShiftAssignmentRepository) Create(contextValue context.Context, assignment *model.ShiftAssignment) (_ *model.ShiftAssignment, returnedError error) {
	nowUTC := time.Now().UTC()
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	assignment.CreatedAt = nowUTC
	assignment.UpdatedAt = nowUTC

	insertResult, insertError := repository.collection.InsertOne(contextValue, assignment)
	if insertError != nil {
		return nil, insertError
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
	}
	assignment.ID = objectID
	return assignment, nil
}

func (repository *ShiftAssignmentRepository) GetByID(contextValue context.Context, assignmentIdentifier primitive.ObjectID) (_ *model.ShiftAssignment, returnedError error) {
	var assignment model.ShiftAssignment
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": assignmentIdentifier}).Decode(&assignment); returnedError != nil {
		return nil, returnedError
	}
	return &assignment, nil
}

func (repository *ShiftAssignmentRepository) List(contextValue context.Context, filter bson.M) (_ []*model.ShiftAssignment, returnedError error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var results []*model.ShiftAssignment
	for cursor.Next(contextValue) {
		var assignment model.ShiftAssignment
		if decodeError := cursor.Decode(&assignment); decodeError != nil {
			return nil, decodeError
		}
		results = append(results, &assignment)
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}

	return results, nil
}

// FindForEmployeeOnDay 取出某員工在指定日曆日內、仍佔用行事曆的班次
// （排除 Cancelled / Swapped；excludeIdentifier 供更新時跳過與自己比較）
func (repository *ShiftAssignmentRepository) FindForEmployeeOnDay(
	contextValue context.Context,
	employeeIdentifier primitive.ObjectID,
	dayStart time.Time,
	dayEnd time.Time,
	excludeIdentifier *primitive.ObjectID,
) (_ []*model.ShiftAssignment, returnedError error) {
	filter := bson.M{
		"employeeId": employeeIdentifier,
		"date":       bson.M{"$gte": dayStart, "$lte": dayEnd},
		"status":     bson.M{"$nin": core.ConflictExemptStatuses},
	}
	if excludeIdentifier != nil {
		filter["_id"] = bson.M{"$ne": *excludeIdentifier}
	}
	return repository.List(contextValue, filter)
}

func (repository *ShiftAssignmentRepository) UpdateByID(contextValue context.Context, assignmentIdentifier primitive.ObjectID, update bson.M) (returnedCount int64, returnedError error) {
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": assignmentIdentifier}, withUpdatedAt(update))
	if updateError != nil {
		return 0, updateError
	}
	if result.MatchedCount == 0 {
		return 0, mongo.ErrNoDocuments
	}
	return result.MatchedCount, nil
}

func (repository *ShiftAssignmentRepository) DeleteByID(contextValue context.Context, assignmentIdentifier primitive.ObjectID) (returnedError error) {
	_, returnedError = repository.collection.DeleteOne(contextValue, bson.M{"_id": assignmentIdentifier})
	return returnedError
}

// DeleteByGroup 刪除同一次排班動作產生的所有單日紀錄
func (repository *ShiftAssignmentRepository) DeleteByGroup(contextValue context.Context, groupIdentifier primitive.ObjectID) (returnedCount int64, returnedError error) {
	result, deleteError := repository.collection.DeleteMany(contextValue, bson.M{"groupId": groupIdentifier})
	if deleteError != nil {
		return 0, deleteError
	}
	return result.DeletedCount, nil
}

// DeleteByEmployee 員工離職清理：刪除其名下所有排班紀錄
func (repository *ShiftAssignmentRepository) DeleteByEmployee(contextValue context.Context, employeeIdentifier primitive.ObjectID) (returnedCount int64, returnedError error) {
	result, deleteError := repository.collection.DeleteMany(contextValue, bson.M{"employeeId": employeeIdentifier})
	if deleteError != nil {
		return 0, deleteError
	}
	return result.DeletedCount, nil
}

// MarkMissedBefore 將截止日前仍停留在 Scheduled 的班次標為 Missed
func (repository *ShiftAssignmentRepository) MarkMissedBefore(contextValue context.Context, cutoff time.Time) (returnedCount int64, returnedError error) {
	result, updateError := repository.collection.UpdateMany(
		contextValue,
		bson.M{"date": bson.M{"$lt": cutoff}, "status": core.AssignmentScheduled},
		withUpdatedAt(bson.M{"$set": bson.M{"status": core.AssignmentMissed}}),
	)
	if updateError != nil {
		return 0, updateError
	}
	return result.ModifiedCount, nil
}
