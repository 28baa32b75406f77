package jsonfields

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

var (
	ErrValidatorAlreadyRegistered = errors.New("a validator with this name is already registered")
	ErrValidatorNotFound          = errors.New("no validator registered with this name")
	ErrInvalidValidatorName       = errors.New("validator name must not be empty")
)

// ValidatorFactory builds a custom Validator from the options of a custom
// literal, i.e. every member other than "$" and "custom".
type ValidatorFactory func(options map[string]any) (Validator, error)

// ValidatorRegistry maps custom validator names to factories. Decoding a
// custom literal looks its name up here.
//
// A ValidatorRegistry is safe for concurrent use.
type ValidatorRegistry struct {
	mu        sync.RWMutex
	factories map[string]ValidatorFactory
	logger    *slog.Logger
}

var (
	_defaultValidatorFactories map[string]ValidatorFactory = nil
)

type ValidatorRegistryOpts struct {
	Factories       map[string]ValidatorFactory
	ExcludeDefaults bool
	Logger          *slog.Logger
}

func NewValidatorRegistry(opts ValidatorRegistryOpts) (*ValidatorRegistry, error) {
	reg := &ValidatorRegistry{
		factories: make(map[string]ValidatorFactory),
		logger:    loggerOrNop(opts.Logger),
	}

	if !opts.ExcludeDefaults {
		for _, name := range slices.Sorted(maps.Keys(_defaultValidatorFactories)) {
			err := reg.Register(name, _defaultValidatorFactories[name])
			if err != nil {
				return nil, err
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(opts.Factories)) {
		err := reg.Register(name, opts.Factories[name])
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register adds a factory under name. Names are unique per registry.
func (reg *ValidatorRegistry) Register(name string, factory ValidatorFactory) error {
	if name == "" {
		return ErrInvalidValidatorName
	}
	if factory == nil {
		return fmt.Errorf("nil factory for validator %q", name)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrValidatorAlreadyRegistered, name)
	}
	reg.factories[name] = factory
	reg.logger.Debug("registered custom validator", "name", name)
	return nil
}

// Lookup returns the factory registered under name.
func (reg *ValidatorRegistry) Lookup(name string) (ValidatorFactory, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	factory, ok := reg.factories[name]
	return factory, ok
}

// Build constructs the CustomType named name with options.
func (reg *ValidatorRegistry) Build(name string, options map[string]any) (CustomType, error) {
	factory, ok := reg.Lookup(name)
	if !ok {
		return CustomType{}, fmt.Errorf("%w: %q", ErrValidatorNotFound, name)
	}

	v, err := factory(options)
	if err != nil {
		return CustomType{}, fmt.Errorf("failed to build validator %q: %w", name, err)
	}
	if v == nil {
		return CustomType{}, fmt.Errorf("factory for validator %q returned nil", name)
	}

	return CustomType{Name: name, Options: options, Validator: v}, nil
}

// Names returns the registered names in sorted order.
func (reg *ValidatorRegistry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return slices.Sorted(maps.Keys(reg.factories))
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gValidatorRegistry *ValidatorRegistry = nil

func init() {
	_defaultValidatorFactories = map[string]ValidatorFactory{
		PatternValidatorName: NewPatternValidator,
		EnumValidatorName:    NewEnumValidator,
		CELValidatorName:     NewCELValidator,
	}

	var err error
	_gValidatorRegistry, err = NewValidatorRegistry(ValidatorRegistryOpts{ExcludeDefaults: false})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize global ValidatorRegistry: %v", err))
	}
}

// DefaultValidatorRegistry returns the registry used by the package level
// decoding functions.
func DefaultValidatorRegistry() *ValidatorRegistry {
	return _gValidatorRegistry
}

// Package-level functions that delegate to the global ValidatorRegistry instance

func RegisterValidator(name string, factory ValidatorFactory) error {
	return _gValidatorRegistry.Register(name, factory)
}

func LookupValidator(name string) (ValidatorFactory, bool) {
	return _gValidatorRegistry.Lookup(name)
}

func BuildCustom(name string, options map[string]any) (CustomType, error) {
	return _gValidatorRegistry.Build(name, options)
}
