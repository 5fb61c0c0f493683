package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/catalog/internal/models"
)

type sentEvent struct {
	topic, key string
	event      any
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []sentEvent
	err  error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEvent{topic, key, event})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fakeIndex struct {
	indexed map[uint]string
	deleted []uint
	hits    []uint
	fail    bool
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[uint]string{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	if f.fail {
		return errors.New("index down")
	}
	f.indexed[p.ID] = p.Name
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	if f.fail {
		return errors.New("index down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.fail {
		return 0, nil, errors.New("index down")
	}
	return int64(len(f.hits)), f.hits, nil
}
