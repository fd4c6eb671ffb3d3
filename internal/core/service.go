// Package core runs the application's event loop: it owns the
// credential store, the configuration gate, the provider client and
// the active conversation, and answers UI events with state snapshots.
package core

import (
	"context"

	"github.com/plumechat/plume/internal/catalog"
	"github.com/plumechat/plume/internal/chat"
	"github.com/plumechat/plume/internal/config"
	"github.com/plumechat/plume/internal/eventbus"
	"github.com/plumechat/plume/internal/provider"
	"github.com/plumechat/plume/internal/store"
)

// ChatService is the core side of the event bus.
type ChatService struct {
	store  *store.Store
	gate   *config.Gate
	bus    *eventbus.Bus
	reval  *config.Revalidator
	ctx    context.Context
	cancel context.CancelFunc

	// client is bound to clientKey; a changed key means a new client,
	// never an in-place mutation.
	client    *provider.Client
	clientKey string
	newClient func(apiKey string) *provider.Client

	// models is the last refreshed catalog, already deduplicated.
	models   []provider.Model
	selected string

	// workflow is the active chat session, nil until the chat screen
	// opens. Recreated on every open: transcripts do not survive a
	// session.
	workflow *chat.Workflow
}

// NewChatService wires the service over the given store and bus.
func NewChatService(st *store.Store, bus *eventbus.Bus) *ChatService {
	ctx, cancel := context.WithCancel(context.Background())

	cs := &ChatService{
		store:     st,
		gate:      config.NewGate(st),
		bus:       bus,
		reval:     config.NewRevalidator(),
		ctx:       ctx,
		cancel:    cancel,
		newClient: provider.NewClient,
	}

	if key, _, err := st.Get(store.KeyAPIKey); err == nil && key != "" {
		cs.client = cs.newClient(key)
		cs.clientKey = key
	}
	if selected, _, err := st.Get(store.KeySelectedModel); err == nil {
		cs.selected = selected
	}
	_, _ = cs.gate.Recompute()

	return cs
}

// Start runs the event loop and, when a key is already stored, kicks
// off an initial catalog refresh so the setup screen is populated.
func (cs *ChatService) Start() {
	cs.pushCatalog(false, nil)
	if cs.client != nil {
		_ = cs.bus.SendToCore(eventbus.RefreshModelsEvent{})
	}
	go cs.eventLoop()
}

func (cs *ChatService) Stop() {
	cs.reval.Cancel()
	cs.cancel()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.bus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SaveKeyEvent:
		cs.saveKey(e.Key)
	case eventbus.RefreshModelsEvent:
		cs.refreshModels()
	case eventbus.SelectModelEvent:
		cs.selectModel(e.ID)
	case eventbus.OpenChatEvent:
		cs.openChat()
	case eventbus.SendMessageEvent:
		cs.sendMessage(e.Text)
	}
}

// saveKey persists the key immediately and schedules a re-validation
// for when the user pauses typing. Each edit supersedes the pending
// check.
func (cs *ChatService) saveKey(key string) {
	if err := cs.store.Set(store.KeyAPIKey, key); err != nil {
		cs.pushCatalog(false, err)
		return
	}

	if key != cs.clientKey {
		if key == "" {
			cs.client = nil
		} else {
			cs.client = cs.newClient(key)
		}
		cs.clientKey = key
	}
	_, _ = cs.gate.Recompute()

	if key == "" {
		cs.reval.Cancel()
		cs.models = nil
		cs.pushCatalog(false, nil)
		return
	}

	cs.reval.Schedule(func() {
		_ = cs.bus.SendToCore(eventbus.RefreshModelsEvent{})
	})
}

func (cs *ChatService) refreshModels() {
	if cs.client == nil {
		cs.pushCatalog(false, nil)
		return
	}

	models, err := catalog.Refresh(cs.ctx, cs.client)
	if err != nil {
		cs.models = nil
		cs.pushCatalog(false, err)
		return
	}

	cs.models = models
	if len(models) > 0 {
		prev, _, _ := cs.store.Get(store.KeySelectedModel)
		selected, err := catalog.SelectDefault(prev, models)
		if err == nil && selected != cs.selected {
			if err := cs.store.Set(store.KeySelectedModel, selected); err != nil {
				cs.pushCatalog(true, err)
				return
			}
			cs.selected = selected
		} else if err == nil {
			cs.selected = selected
		}
	}

	_, _ = cs.gate.Recompute()
	cs.pushCatalog(true, nil)
}

func (cs *ChatService) selectModel(id string) {
	if err := cs.store.Set(store.KeySelectedModel, id); err != nil {
		cs.pushCatalog(true, err)
		return
	}
	cs.selected = id
	_, _ = cs.gate.Recompute()
	cs.pushCatalog(true, nil)
}

// openChat hands the chat session exactly {apiKey, modelId} and
// refuses when either is absent. Every open starts a fresh transcript.
func (cs *ChatService) openChat() {
	sess, err := cs.gate.Session()
	if err != nil {
		_ = cs.bus.SendToUI(eventbus.ChatOpenedEvent{Err: err})
		return
	}

	if cs.client == nil || cs.clientKey != sess.APIKey {
		cs.client = cs.newClient(sess.APIKey)
		cs.clientKey = sess.APIKey
	}

	workflow := chat.NewWorkflow(cs.client, sess.ModelID, nil)
	workflow.SetOnChange(func() { cs.pushTranscript(workflow) })
	cs.workflow = workflow

	_ = cs.bus.SendToUI(eventbus.ChatOpenedEvent{Messages: workflow.Transcript()})
}

// sendMessage runs the submit off the event loop so the loop stays
// responsive; single-flight is the workflow's own guard, and a
// rejected submit is a silent no-op.
func (cs *ChatService) sendMessage(text string) {
	workflow := cs.workflow
	if workflow == nil {
		_ = cs.bus.SendToUI(eventbus.TranscriptEvent{Err: config.ErrNotConfigured})
		return
	}

	go func() {
		_ = workflow.Submit(cs.ctx, text)
	}()
}

func (cs *ChatService) pushTranscript(workflow *chat.Workflow) {
	_ = cs.bus.SendToUI(eventbus.TranscriptEvent{
		Messages: workflow.Transcript(),
		Sending:  workflow.State() == chat.Sending,
		Err:      workflow.LastError(),
	})
}

func (cs *ChatService) pushCatalog(keyValid bool, err error) {
	_ = cs.bus.SendToUI(eventbus.CatalogEvent{
		Models:     cs.models,
		Selected:   cs.selected,
		KeyValid:   keyValid,
		Configured: cs.gate.IsConfigured(),
		Err:        err,
	})
}
