// Package timelock contains RPC wrappers for TimeLock contract.
package timelock

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Lock is a contract-side lock record. Unknown identifiers produce a zero
// Lock with empty Owner.
type Lock struct {
	Owner  util.Uint160
	Asset  util.Uint160
	Amount *big.Int
	// Block timestamps in milliseconds.
	StartTime  *big.Int
	UnlockTime *big.Int
}

// Settings is the contract-side configuration record.
type Settings struct {
	FeeRecipient util.Uint160
	Fee          *big.Int
	PenaltyBps   *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetLock invokes `getLock` method of contract.
func (c *ContractReader) GetLock(id *big.Int) (*Lock, error) {
	return itemToLock(unwrap.Item(c.invoker.Call(c.hash, "getLock", id)))
}

// LockCounter invokes `lockCounter` method of contract.
func (c *ContractReader) LockCounter() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "lockCounter"))
}

// Locks invokes `locks` method of contract and returns an iterator session
// over all lock records.
func (c *ContractReader) Locks() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "locks"))
}

// LocksExpanded is similar to Locks (uses the same contract method), but can
// be useful if the server used doesn't support sessions and doesn't expand
// iterators. It creates a script that will get the specified number of
// result items from the iterator right in the VM and return them to you.
// It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) LocksExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "locks", _numOfIteratorItems))
}

// GetSettings invokes `getSettings` method of contract.
func (c *ContractReader) GetSettings() (*Settings, error) {
	return itemToSettings(unwrap.Item(c.invoker.Call(c.hash, "getSettings")))
}

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateLock creates a transaction invoking `createLock` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateLock(owner util.Uint160, asset util.Uint160, amount *big.Int, duration *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createLock", owner, asset, amount, duration)
}

// CreateLockTransaction creates a transaction invoking `createLock` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateLockTransaction(owner util.Uint160, asset util.Uint160, amount *big.Int, duration *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createLock", owner, asset, amount, duration)
}

// CreateLockUnsigned creates a transaction invoking `createLock` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateLockUnsigned(owner util.Uint160, asset util.Uint160, amount *big.Int, duration *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createLock", nil, owner, asset, amount, duration)
}

// AddToLock creates a transaction invoking `addToLock` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddToLock(id *big.Int, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addToLock", id, amount)
}

// AddToLockTransaction creates a transaction invoking `addToLock` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddToLockTransaction(id *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addToLock", id, amount)
}

// AddToLockUnsigned creates a transaction invoking `addToLock` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) AddToLockUnsigned(id *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addToLock", nil, id, amount)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(id *big.Int, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", id, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(id *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", id, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) WithdrawUnsigned(id *big.Int, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, id, amount)
}

// UpdateSettings creates a transaction invoking `updateSettings` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateSettings(feeRecipient util.Uint160, fee *big.Int, penaltyBps *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateSettings", feeRecipient, fee, penaltyBps)
}

// UpdateSettingsTransaction creates a transaction invoking `updateSettings` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateSettingsTransaction(feeRecipient util.Uint160, fee *big.Int, penaltyBps *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateSettings", feeRecipient, fee, penaltyBps)
}

// UpdateSettingsUnsigned creates a transaction invoking `updateSettings` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
func (c *Contract) UpdateSettingsUnsigned(feeRecipient util.Uint160, fee *big.Int, penaltyBps *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateSettings", nil, feeRecipient, fee, penaltyBps)
}

// ChangeAdmin creates a transaction invoking `changeAdmin` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ChangeAdmin(newAdmin util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "changeAdmin", newAdmin)
}

// AcceptAdmin creates a transaction invoking `acceptAdmin` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AcceptAdmin() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "acceptAdmin")
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// itemToLock converts stack item into *Lock.
func itemToLock(item stackitem.Item, err error) (*Lock, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Lock)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Lock from the given [stackitem.Item]
// or returns an error if it's not possible to do to so.
func (res *Lock) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Owner, err = hash160FromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	res.Asset, err = hash160FromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Asset: %w", err)
	}

	res.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	res.StartTime, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field StartTime: %w", err)
	}

	res.UnlockTime, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field UnlockTime: %w", err)
	}

	return nil
}

// itemToSettings converts stack item into *Settings.
func itemToSettings(item stackitem.Item, err error) (*Settings, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Settings)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Settings from the given [stackitem.Item]
// or returns an error if it's not possible to do to so.
func (res *Settings) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.FeeRecipient, err = hash160FromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field FeeRecipient: %w", err)
	}

	res.Fee, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	res.PenaltyBps, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field PenaltyBps: %w", err)
	}

	return nil
}

// hash160FromItem is lenient about empty byte strings since the contract
// returns zero records with empty owner and asset for unknown lock
// identifiers.
func hash160FromItem(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) == 0 {
		return util.Uint160{}, nil
	}
	return util.Uint160DecodeBytesBE(b)
}
