package db

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chiptheory/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	fail  bool
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	if f.fail {
		return nil, errors.New("throttled")
	}
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.fail {
		return nil, errors.New("throttled")
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoStoreRoundTrip(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	st := NewDynamoStore(fake, "analyses")

	_, ok, err := st.Get("song")
	require.NoError(t, err)
	assert.False(t, ok)

	s := model.NewAnalysisState()
	s.Anchors = []float64{0.25, 2.25}
	s.CorrectedMeasures[5] = 10.5
	sel := 7
	s.SelectedDownbeat = &sel
	require.NoError(t, st.Set("song", s))

	got, ok, err := st.Get("song")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, s, got)
}

func TestDynamoStoreErrors(t *testing.T) {
	st := NewDynamoStore(&fakeDynamo{fail: true}, "analyses")
	_, _, err := st.Get("song")
	assert.Error(t, err)
	assert.Error(t, st.Set("song", model.NewAnalysisState()))
}
