package store

import (
	"cloud.google.com/go/firestore"
	"context"
	"errors"
	"fmt"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func isNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return err != nil && status.Code(err) == codes.AlreadyExists
}

func create[T any](ctx context.Context, client *firestore.Client, documentPath string, t *T) error {
	dr := client.Doc(documentPath)
	if dr == nil {
		return fmt.Errorf("invalid document path, %s", documentPath)
	}

	if _, err := dr.Create(ctx, t); err != nil {
		return fmt.Errorf("error creating document, %w", err)
	}

	return nil
}

func get[T any](ctx context.Context, client *firestore.Client, documentPath string) (*T, error) {
	dr := client.Doc(documentPath)
	if dr == nil {
		return nil, fmt.Errorf("invalid document path, %s", documentPath)
	}

	ds, err := dr.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting document, %w", err)
	}

	t := new(T)
	if err = ds.DataTo(t); err != nil {
		return nil, fmt.Errorf("error decoding document, %w", err)
	}

	return t, nil
}

func update(ctx context.Context, client *firestore.Client, documentPath string, fields map[string]any) error {
	dr := client.Doc(documentPath)
	if dr == nil {
		return fmt.Errorf("invalid document path, %s", documentPath)
	}

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}

	if _, err := dr.Update(ctx, updates); err != nil {
		return fmt.Errorf("error updating document, %w", err)
	}

	return nil
}

// removeDocument deletes a document together with every nested collection.
func removeDocument(ctx context.Context, client *firestore.Client, dr *firestore.DocumentRef) error {
	iter := dr.Collections(ctx)
	for {
		cr, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}

		if err = removeCollection(ctx, client, cr); err != nil {
			return fmt.Errorf("error deleting collection, %w", err)
		}
	}

	if _, err := dr.Delete(ctx); err != nil {
		return fmt.Errorf("error deleting document, %w", err)
	}

	return nil
}

func removeCollection(ctx context.Context, client *firestore.Client, cr *firestore.CollectionRef) error {
	iter := cr.Documents(ctx)
	for {
		ds, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}

		if err = removeDocument(ctx, client, ds.Ref); err != nil {
			return err
		}
	}

	return nil
}

func query[T any](ctx context.Context, client *firestore.Client, criteria queryCriteria) ([]*T, error) {
	cr := client.Collection(criteria.Path)
	if cr == nil {
		return nil, fmt.Errorf("invalid collection path, %s", criteria.Path)
	}

	q := cr.Query
	for _, o := range criteria.OrderBy {
		q = q.OrderBy(o.Field, o.Direction)
	}
	if criteria.Limit > 0 {
		q = q.Limit(criteria.Limit)
	}

	ds, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("error querying documents, %w", err)
	}

	documents := make([]*T, 0, len(ds))
	for _, d := range ds {
		t := new(T)
		if err = d.DataTo(t); err != nil {
			return nil, fmt.Errorf("error decoding document, %w", err)
		}
		documents = append(documents, t)
	}

	return documents, nil
}

type queryCriteria struct {
	Path    string
	OrderBy []orderBy
	Limit   int
}

type orderBy struct {
	Field     string
	Direction firestore.Direction
}
