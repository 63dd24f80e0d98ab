package song

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
)

// Attribute names of the songs table. The partition key is PK.
const (
	attrID   = "PK"
	attrName = "Name"
	attrBody = "Body"
)

// DynamoStore keeps songs in a DynamoDB table, one item per song with the
// JSON encoding in Body.
type DynamoStore struct {
	db    dynamodbiface.DynamoDBAPI
	table string
}

// NewDynamoStore connects to table in region. A non-empty endpoint points
// the client at a local DynamoDB.
func NewDynamoStore(table, region, endpoint string) (*DynamoStore, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return NewDynamoStoreWithClient(dynamodb.New(sess), table), nil
}

func NewDynamoStoreWithClient(db dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{db: db, table: table}
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{attrID: {S: aws.String(id)}}
}

func (d *DynamoStore) List(ctx context.Context) ([]Summary, error) {
	list := []Summary{}
	input := &dynamodb.ScanInput{
		TableName:                aws.String(d.table),
		ProjectionExpression:     aws.String("#id, #name"),
		ExpressionAttributeNames: map[string]*string{"#id": aws.String(attrID), "#name": aws.String(attrName)},
	}
	err := d.db.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, last bool) bool {
		for _, item := range page.Items {
			list = append(list, Summary{ID: aws.StringValue(item[attrID].S), Name: stringAttr(item, attrName)})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", d.table, err)
	}
	sortSummaries(list)
	return list, nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v != nil {
		return aws.StringValue(v.S)
	}
	return ""
}

func (d *DynamoStore) Load(ctx context.Context, id string) (*Song, error) {
	out, err := d.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("error loading song %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s, err := Unmarshal([]byte(stringAttr(out.Item, attrBody)))
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

func (d *DynamoStore) put(ctx context.Context, s *Song, condition string) error {
	body, err := Marshal(s, JSON)
	if err != nil {
		return err
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]*dynamodb.AttributeValue{
			attrID:   {S: aws.String(s.ID)},
			attrName: {S: aws.String(s.Name)},
			attrBody: {S: aws.String(string(body))},
		},
	}
	if condition != "" {
		input.ConditionExpression = aws.String(condition)
		input.ExpressionAttributeNames = map[string]*string{"#id": aws.String(attrID)}
	}
	if _, err := d.db.PutItemWithContext(ctx, input); err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
		}
		return fmt.Errorf("error saving song %s: %w", s.ID, err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var aerr awserr.Error
	return errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
}

func (d *DynamoStore) Create(ctx context.Context, s *Song) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	s.ID = uuid.NewString()
	if err := d.put(ctx, s, ""); err != nil {
		return "", err
	}
	return s.ID, nil
}

func (d *DynamoStore) Save(ctx context.Context, s *Song) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return d.put(ctx, s, "attribute_exists(#id)")
}

// Rename rewrites both the name attribute and the stored body, so it loads
// the song first.
func (d *DynamoStore) Rename(ctx context.Context, id, name string) error {
	s, err := d.Load(ctx, id)
	if err != nil {
		return err
	}
	s.Rename(name)
	return d.put(ctx, s, "attribute_exists(#id)")
}

func (d *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := d.db.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(d.table),
		Key:                      key(id),
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]*string{"#id": aws.String(attrID)},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("error deleting song %s: %w", id, err)
	}
	return nil
}
