package caps

import "errors"

// Registration errors. They are returned wrapped with the capability or
// bundle they were raised for, so compare with errors.Is.
var (
	// ErrCapabilityConflict is returned when a capability name is requested
	// again with a different type or context type.
	ErrCapabilityConflict = errors.New("capability already exists with different types")

	// ErrInvalidName is returned for capability names that are not valid
	// namespace:path identifiers.
	ErrInvalidName = errors.New("invalid capability name")

	// ErrNoTargets is returned when a block or item provider is registered
	// for zero blocks or items.
	ErrNoTargets = errors.New("must register at least one target")

	// ErrNilTarget is returned when a nil block, item or entity type is passed
	// to a registration call.
	ErrNilTarget = errors.New("nil registration target")

	// ErrNilProvider is returned when a nil provider is registered.
	ErrNilProvider = errors.New("nil provider")

	// ErrRegistrationClosed is returned when providers are registered outside
	// of the registration window.
	ErrRegistrationClosed = errors.New("capability registration is closed")

	// ErrAlreadyRegistered is returned when Registry.Register runs twice.
	ErrAlreadyRegistered = errors.New("capability registration already ran")

	// ErrForeignCapability is returned when a capability created by one
	// Registry is registered through the event of another.
	ErrForeignCapability = errors.New("capability belongs to a different registry")
)

// ErrQueryDuringInvalidation is the panic value of BlockCache.Capability when
// it is called from the invalidation listener or on a cache whose owner
// reported itself invalid.
var ErrQueryDuringInvalidation = errors.New("do not query an invalid cache or from its invalidation listener")

// ErrNoTransaction is the panic value of WorldLevel reads made while no
// transaction is bound to the level.
var ErrNoTransaction = errors.New("world level read outside of a transaction")
