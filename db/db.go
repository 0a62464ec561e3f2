package db

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chiptheory/model"
)

// DynamoStore keeps each track's analysis as a JSON string attribute keyed by
// track id.
type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoSession(endpoint, region string) (*session.Session, error) {
	s, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return s, nil
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func Open(endpoint, region, table string) (*DynamoStore, error) {
	s, err := NewDynamoSession(endpoint, region)
	if err != nil {
		return nil, err
	}
	return NewDynamoStore(dynamodb.New(s), table), nil
}

func (d *DynamoStore) Get(trackId string) (model.AnalysisState, bool, error) {
	out, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(trackId)},
		},
	})
	if err != nil {
		return model.AnalysisState{}, false, fmt.Errorf("error from DynamoDB: %w", err)
	}

	attr, ok := out.Item["State"]
	if !ok || attr.S == nil {
		return model.AnalysisState{}, false, nil
	}

	var s model.AnalysisState
	if err := json.Unmarshal([]byte(*attr.S), &s); err != nil {
		return model.AnalysisState{}, false, fmt.Errorf("could not decode analysis for %v: %w", trackId, err)
	}
	return s, true, nil
}

func (d *DynamoStore) Set(trackId string, s model.AnalysisState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK":    {S: aws.String(trackId)},
			"State": {S: aws.String(string(data))},
		},
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}
