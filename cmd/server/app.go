package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcsstorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/dues"
	"github.com/kusalyaa/SpendMart-sub000/internal/extraction"
	"github.com/kusalyaa/SpendMart-sub000/internal/ledger"
	"github.com/kusalyaa/SpendMart-sub000/internal/notify"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
	"github.com/kusalyaa/SpendMart-sub000/internal/search"
	"github.com/kusalyaa/SpendMart-sub000/internal/service"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
)

// app holds the wired components shared by the server and the subcommands.
type app struct {
	store      store.Store
	service    *service.FinanceService
	dispatcher *notify.Dispatcher
	verifier   auth.TokenVerifier

	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.WithError(err).Warn("Failed to close client")
		}
	}
}

// buildApp connects to the configured backends and wires the service.
func buildApp(ctx context.Context) (*app, error) {
	a := &app{}

	var fbApp *firebase.App
	if cfg.Store.Backend == "memory" {
		log.Info("Using in-memory store for local development")
		a.store = store.NewMemoryStore()
	} else {
		var opts []option.ClientOption
		if cfg.Firestore.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firestore.CredentialsFile))
		}
		client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, opts...)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.store = store.NewFirestoreStore(client)

		fbApp, err = auth.NewFirebaseApp(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize firebase: %w", err)
		}
	}

	if fbApp != nil && !cfg.Auth.Skip {
		verifier, err := auth.NewFirebaseAuth(ctx, fbApp)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.verifier = verifier
	}

	l := ledger.New(a.store, log)

	// Reminders are stored for every backend; push delivery needs FCM.
	var sender notify.Sender
	if fbApp != nil {
		msg, err := fbApp.Messaging(ctx)
		if err != nil {
			log.WithError(err).Warn("FCM unavailable, reminders will be marked sent without delivery")
		} else {
			sender = msg
		}
	}
	a.dispatcher = notify.NewDispatcher(a.store, sender, log, cfg.Reminders.BatchSize)

	sched := dues.NewScheduler(a.store, notify.NewStoreScheduler(a.store), log, cfg.DuesConfig())

	var indexer purchase.Indexer
	var searcher service.ItemSearcher
	if cfg.Algolia.AppID != "" {
		client, err := search.NewAlgoliaClient(search.Config{
			AppID:     cfg.Algolia.AppID,
			APIKey:    cfg.Algolia.APIKey,
			IndexName: cfg.Algolia.IndexName,
		}, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		indexer, searcher = client, client
		log.WithField("index", cfg.Algolia.IndexName).Info("Algolia search enabled")
	}

	orch := purchase.NewOrchestrator(l, sched, auth.ContextIdentity{}, indexer, log, cfg.PurchaseConfig())
	a.service = service.NewFinanceService(a.store, l, orch, sched, log)
	a.service.SetDispatcher(a.dispatcher)
	if searcher != nil {
		a.service.SetSearcher(searcher)
	}

	if cfg.Extraction.OCRURL != "" {
		a.service.SetExtractor(extraction.NewReceiptExtractor(extraction.NewOCRClient(cfg.Extraction.OCRURL), log))
	} else {
		// Text-layer PDFs still work without an OCR service.
		a.service.SetExtractor(extraction.NewReceiptExtractor(nil, log))
	}

	if cfg.Storage.ReceiptsBucket != "" {
		client, err := gcsstorage.NewClient(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.service.SetReceiptArchive(service.NewGCSArchive(client.Bucket(cfg.Storage.ReceiptsBucket)))
	}

	return a, nil
}
