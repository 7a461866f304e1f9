package api

import (
	"github.com/JaimeStill/floraguard/internal/alerts"
	"github.com/JaimeStill/floraguard/internal/classifier"
	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/internal/decision"
	"github.com/JaimeStill/floraguard/internal/languages"
	"github.com/JaimeStill/floraguard/internal/plantnet"
	"github.com/JaimeStill/floraguard/internal/plants"
	"github.com/JaimeStill/floraguard/internal/records"
	"github.com/JaimeStill/floraguard/internal/translate"
)

// Domain holds all domain systems that comprise the API. Each is built once
// per process and shared by every request.
type Domain struct {
	Plants     plants.System
	Translator *translate.Translator
	Texts      *languages.Texts
	Records    *records.Store
	Classifier classifier.System
	Identifier *plantnet.Client
	Decision   *decision.Engine
	Alerts     *alerts.Dispatcher
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	plantsSystem := plants.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	translator := translate.New(
		translate.NewProvider(&cfg.Translation, nil),
		&cfg.Translation,
		runtime.Logger,
	)

	texts := languages.NewTexts(runtime.Storage, translator, languages.DefaultBundleTTL, runtime.Logger)

	store := records.New(plantsSystem, texts, runtime.StoragePath, runtime.Logger)

	cls := classifier.New(
		cfg.Classifier,
		classifier.NewServing(cfg.Classifier, nil),
		runtime.Logger,
	)

	identifier := plantnet.New(cfg.PlantNet, nil, runtime.Logger)

	engine := decision.New(cfg.Decision, store, identifier, texts, runtime.Logger)

	dispatcher := alerts.NewDispatcher(
		alerts.NewNotifier(cfg.Alerts),
		cfg.Alerts.TimeoutDuration(),
		cfg.Alerts.MaxInFlight,
		runtime.Logger,
	)

	return &Domain{
		Plants:     plantsSystem,
		Translator: translator,
		Texts:      texts,
		Records:    store,
		Classifier: cls,
		Identifier: identifier,
		Decision:   engine,
		Alerts:     dispatcher,
	}
}

// Start registers the classifier warm-up and alert drain with the lifecycle
// coordinator.
func (d *Domain) Start(runtime *Runtime) error {
	if err := d.Classifier.Start(runtime.Lifecycle); err != nil {
		return err
	}

	lc := runtime.Lifecycle
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.Alerts.Wait()
	})

	return nil
}
