package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/pkg/action"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
	"github.com/goliatone/go-formbind/pkg/lifecycle"
	"github.com/goliatone/go-formbind/pkg/metrics"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
	"github.com/goliatone/go-formbind/pkg/widget"
)

//go:embed demo/articles.yaml
var articlesDocument []byte

const categoriesVocabulary = "categories"

type article struct {
	Title    string `form:"title" json:"title"`
	Link     string `form:"link" json:"link,omitempty"`
	Category string `form:"category" json:"category,omitempty"`
	Summary  string `form:"summary" json:"summary,omitempty"`
}

// articleStore is the container add forms insert into.
type articleStore struct {
	mu       sync.RWMutex
	articles map[string]*article
	names    map[*article]string
}

func newArticleStore() *articleStore {
	return &articleStore{articles: map[string]*article{}, names: map[*article]string{}}
}

func (s *articleStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.articles[name]
	return ok
}

func (s *articleStore) Set(name string, obj any) error {
	doc, ok := obj.(*article)
	if !ok {
		return fmt.Errorf("article store: unexpected %T", obj)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[name] = doc
	s.names[doc] = name
	return nil
}

func (s *articleStore) Get(name string) (*article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.articles[name]
	return doc, ok
}

func (s *articleStore) URL(obj any) string {
	doc, ok := obj.(*article)
	if !ok {
		return "/articles/"
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.names[doc]; ok {
		return "/articles/" + name + "/edit"
	}
	return "/articles/"
}

func (s *articleStore) list() map[string]*article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*article, len(s.articles))
	for name, doc := range s.articles {
		out[name] = doc
	}
	return out
}

// demo wires the article forms, their actions and the metrics endpoint.
type demo struct {
	cfg          config.Server
	logger       *slog.Logger
	store        *articleStore
	fields       form.FieldSet
	vocabularies *vocabulary.Registry
	widgets      *widget.Registry
	renderer     *render.Renderer
	metrics      *prometheus.Registry
	recorder     *metrics.Recorder
	events       *lifecycle.Dispatcher
}

func newDemo(ctx context.Context, cfg config.Server, vocabularies *vocabulary.Registry, logger *slog.Logger) (*demo, error) {
	fields, err := schema.LoadComponent(ctx, articlesDocument, "Article")
	if err != nil {
		return nil, err
	}
	if !hasVocabulary(vocabularies, categoriesVocabulary) {
		err := vocabularies.RegisterVocabulary(categoriesVocabulary, vocabulary.MustSimple(
			vocabulary.Term{Token: "news", Value: "news", Title: "News"},
			vocabulary.Term{Token: "howto", Value: "howto", Title: "How-to"},
			vocabulary.Term{Token: "opinion", Value: "opinion", Title: "Opinion"},
		))
		if err != nil {
			return nil, err
		}
	}
	renderer, err := render.New(render.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, err
	}
	events := lifecycle.NewDispatcher(lifecycle.WithLogger(logger))
	events.Subscribe(lifecycle.NotifierFunc(func(ctx context.Context, event lifecycle.Event) {
		logger.InfoContext(ctx, "article changed", "type", string(event.Type), "fields", event.Fields)
	}))

	return &demo{
		cfg:          cfg,
		logger:       logger,
		store:        newArticleStore(),
		fields:       fields,
		vocabularies: vocabularies,
		widgets:      widget.NewRegistry(),
		renderer:     renderer,
		metrics:      reg,
		recorder:     recorder,
		events:       events,
	}, nil
}

func hasVocabulary(registry *vocabulary.Registry, name string) bool {
	for _, registered := range registry.Names() {
		if registered == name {
			return true
		}
	}
	return false
}

func (d *demo) actionOptions() []action.Option {
	return []action.Option{
		action.WithLogger(d.logger),
		action.WithNotifier(d.events),
		action.WithObserver(d.recorder),
	}
}

func (d *demo) newForm(obj, content any, input form.Input, opts ...form.Option) *form.Form {
	base := []form.Option{
		form.WithPrefix(d.cfg.Prefix),
		form.WithObject(obj),
		form.WithInput(input),
		form.WithURLs(d.store),
		form.WithExtractors(d.widgets),
		form.WithVocabularies(d.vocabularies),
	}
	if content != nil {
		base = append(base, form.WithContent(content))
	}
	return form.New(d.fields, append(base, opts...)...)
}

func (d *demo) routes() http.Handler {
	add := httpform.New(
		func(_ *http.Request, input form.Input) (*form.Form, error) {
			return d.newForm(nil, d.store, input, form.WithIgnoreContent(true)), nil
		},
		d.widgets, d.renderer,
		action.Actions{
			action.NewAdd("Add", func(context.Context) (any, error) { return &article{}, nil },
				action.WithActionOptions(d.actionOptions()...),
				action.WithNextURL(func(_ *form.Form, obj any) string { return d.store.URL(obj) }),
			),
		},
		httpform.WithPrefix(d.cfg.Prefix),
		httpform.WithLogger(d.logger),
	)
	edit := httpform.New(
		func(r *http.Request, input form.Input) (*form.Form, error) {
			doc, ok := d.store.Get(chi.URLParam(r, "name"))
			if !ok {
				return nil, httpform.ErrNotFound
			}
			return d.newForm(doc, nil, input), nil
		},
		d.widgets, d.renderer,
		action.Actions{
			action.NewEdit("Save", d.actionOptions()...),
			action.NewCancel("Cancel", d.actionOptions()...),
		},
		httpform.WithPrefix(d.cfg.Prefix),
		httpform.WithLogger(d.logger),
	)

	r := chi.NewRouter()
	r.Get("/articles", d.listArticles)
	r.Get("/articles/", d.listArticles)
	r.Mount("/articles/add", add.Routes())
	r.Mount("/articles/{name}/edit", edit.Routes())
	r.Handle("/metrics", metrics.Handler(d.metrics))
	return r
}

func (d *demo) listArticles(w http.ResponseWriter, r *http.Request) {
	articles := d.store.list()
	names := make([]string, 0, len(articles))
	for name := range articles {
		names = append(names, name)
	}
	sort.Strings(names)

	type entry struct {
		Name string `json:"name"`
		*article
	}
	out := make([]entry, 0, len(names))
	for _, name := range names {
		out = append(out, entry{Name: name, article: articles[name]})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		d.logger.WarnContext(r.Context(), "encode articles", "err", err)
	}
}
