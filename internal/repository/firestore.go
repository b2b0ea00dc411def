package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// FirestoreStore keeps each user's dataset in the document users/{userID}
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore through the Firebase Admin SDK.
// An empty credentialsFile falls back to application default credentials.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the Firestore connection
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) Save(ctx context.Context, userID string, data *models.AppData) error {
	fields, err := toFields(data)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(usersCollection).Doc(userID).Set(ctx, fields); err != nil {
		return fmt.Errorf("failed to save document %s: %w", DocumentKey(userID), err)
	}
	return nil
}

func (s *FirestoreStore) Load(ctx context.Context, userID string) (*models.AppData, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", DocumentKey(userID), err)
	}
	return fromFields(snap.Data())
}

func (s *FirestoreStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.client.Collection(usersCollection).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", DocumentKey(userID), err)
	}
	return nil
}

// toFields maps the snapshot schema onto Firestore document fields so the
// remote document mirrors the local one key for key
func toFields(data *models.AppData) (map[string]interface{}, error) {
	b, err := Encode(data)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("failed to map snapshot fields: %w", err)
	}
	return fields, nil
}

func fromFields(fields map[string]interface{}) (*models.AppData, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to read document fields: %w", err)
	}
	return Decode(b)
}
