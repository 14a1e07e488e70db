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
)

type TeamRepository struct {
	collection *mongo.Collection
}

func NewTeamRepository(mongoClient *client.MongoClient) *TeamRepository {
	repository := &TeamRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBStaffhub)).Collection(string(core.MongoCollectionTeams)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *TeamRepository) ensureIndexes(contextValue context.Context) error {
	_, _ = repository.collection.Indexes().CreateMany(contextValue, model.TeamIndexes)
	return nil
}

func (repository *TeamRepository) Create(contextValue context.Context, team *model.Team) (_ *model.Team, returnedError error) {
	nowUTC := time.Now().UTC()
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	team.CreatedAt = nowUTC
	team.UpdatedAt = nowUTC

	insertResult, insertError := repository.collection.InsertOne(contextValue, team)
	if insertError != nil {
		return nil, insertError
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
	}
	team.ID = objectID
	return team, nil
}

func (repository *TeamRepository) GetByID(contextValue context.Context, teamIdentifier primitive.ObjectID) (_ *model.Team, returnedError error) {
	var team model.Team
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": teamIdentifier}).Decode(&team); returnedError != nil {
		return nil, returnedError
	}
	return &team, nil
}

func (repository *TeamRepository) List(contextValue context.Context, filter bson.M) (_ []*model.Team, returnedError error) {
	cursor, findError := repository.collection.Find(contextValue, filter)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var results []*model.Team
	for cursor.Next(contextValue) {
		var team model.Team
		if decodeError := cursor.Decode(&team); decodeError != nil {
			return nil, decodeError
		}
		results = append(results, &team)
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}

	return results, nil
}

func (repository *TeamRepository) UpdateByID(contextValue context.Context, teamIdentifier primitive.ObjectID, update bson.M) (returnedCount int64, returnedError error) {
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": teamIdentifier}, withUpdatedAt(update))
	if updateError != nil {
		return 0, updateError
	}
	if result.MatchedCount == 0 {
		return 0, mongo.ErrNoDocuments
	}
	return result.MatchedCount, nil
}

func (repository *TeamRepository) DeleteByID(contextValue context.Context, teamIdentifier primitive.ObjectID) (returnedError error) {
	_, returnedError = repository.collection.DeleteOne(contextValue, bson.M{"_id": teamIdentifier})
	return returnedError
}

// RemoveMemberEverywhere 員工離職清理：自所有班表移除該成員
func (repository *TeamRepository) RemoveMemberEverywhere(contextValue context.Context, employeeIdentifier primitive.ObjectID) (returnedCount int64, returnedError error) {
	result, updateError := repository.collection.UpdateMany(
		contextValue,
		bson.M{"memberIds": employeeIdentifier},
		withUpdatedAt(bson.M{"$pull": bson.M{"memberIds": employeeIdentifier}}),
	)
	if updateError != nil {
		return 0, updateError
	}
	return result.ModifiedCount, nil
}
