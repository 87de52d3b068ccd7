package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SuiteOptions tunes the components assembled by NewNotificationSuite.
type SuiteOptions struct {
	Store      []StoreOption
	Reconciler []ReconcilerOption
	State      []StateOption
}

// NotificationSuite bundles the notification services sharing one store and reconciler.
type NotificationSuite struct {
	Store      *NotificationStore
	Reconciler *LinkReconciler
	Broadcasts *BroadcastService
	Feed       *FeedService
	State      *NotificationStateService
	Events     *EventService
}

// NewNotificationSuite wires the store, the user directory, the event existence checker and every
// service built on top of them.
func NewNotificationSuite(db *gorm.DB, opts SuiteOptions) (*NotificationSuite, error) {
	if db == nil {
		return nil, errors.New("notification suite: db is required")
	}

	store, err := NewNotificationStore(db, opts.Store...)
	if err != nil {
		return nil, err
	}
	directory, err := NewUserDirectory(db)
	if err != nil {
		return nil, err
	}
	checker, err := NewEventResourceChecker(db)
	if err != nil {
		return nil, err
	}

	suite := &NotificationSuite{Store: store}
	if suite.Reconciler, err = NewLinkReconciler(store, checker, opts.Reconciler...); err != nil {
		return nil, fmt.Errorf("notification suite: %w", err)
	}
	if suite.Broadcasts, err = NewBroadcastService(store, directory); err != nil {
		return nil, fmt.Errorf("notification suite: %w", err)
	}
	if suite.Feed, err = NewFeedService(store, suite.Reconciler); err != nil {
		return nil, fmt.Errorf("notification suite: %w", err)
	}
	if suite.State, err = NewNotificationStateService(store, opts.State...); err != nil {
		return nil, fmt.Errorf("notification suite: %w", err)
	}
	if suite.Events, err = NewEventService(db, suite.Broadcasts, suite.Reconciler); err != nil {
		return nil, fmt.Errorf("notification suite: %w", err)
	}
	return suite, nil
}
