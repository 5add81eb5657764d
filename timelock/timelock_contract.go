package timelock

import (
	"github.com/chainlock/timelock-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Settings is the ledger configuration record. There is always exactly
	// one instance, written at deploy time and replaced as a whole by
	// UpdateSettings.
	Settings struct {
		// Account receiving deposit fees and early withdrawal penalties.
		FeeRecipient interop.Hash160
		// Flat GAS fee charged on every CreateLock and AddToLock.
		Fee int
		// Early withdrawal penalty rate in basis points.
		PenaltyBps int
	}

	// Lock is a single escrow record. Owner and Asset are set at creation
	// and never change; Amount is the quantity currently custodied under
	// this lock. A lock is never deleted, Amount 0 leaves an inert record
	// that AddToLock can reactivate.
	Lock struct {
		Owner  interop.Hash160
		Asset  interop.Hash160
		Amount int
		// Block timestamps in milliseconds.
		StartTime  int
		UnlockTime int
	}
)

const (
	adminKey        = "contractAdmin"
	pendingAdminKey = "pendingAdmin"
	settingsKey     = "settings"
	counterKey      = "lastLockID"
	inFlightKey     = "inFlight"
)

var lockKeyPrefix = []byte("lock")

func _deploy(data interface{}, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		admin        interop.Hash160
		feeRecipient interop.Hash160
		fee          int
		penaltyBps   int
	})

	if len(args.admin) != interop.Hash160Len {
		panic("incorrect length of admin script hash")
	}
	if len(args.feeRecipient) != interop.Hash160Len {
		panic("incorrect length of fee recipient script hash")
	}
	if args.fee < 0 {
		panic("negative fee")
	}

	storage.Put(ctx, adminKey, args.admin)
	common.SetSerialized(ctx, settingsKey, Settings{
		FeeRecipient: args.feeRecipient,
		Fee:          args.fee,
		PenaltyBps:   args.penaltyBps,
	})

	runtime.Log("timelock contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by the contract administrator.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	common.CheckAdminWitness(getAdmin(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("timelock contract updated")
}

// CreateLock escrows amount of the NEP-17 asset under a new lock owned by
// owner and returns the lock identifier. Identifiers are allocated from an
// incrementing counter starting at 1 and are never reused. The lock becomes
// penalty-free at the current block time plus duration milliseconds;
// duration 0 yields an immediately unlockable lock and additional deposits
// never extend it.
//
// The asset amount is pulled from owner into contract custody and the flat
// GAS fee from the current settings is pulled from owner to the fee
// recipient. Any transfer failure aborts the whole operation.
//
// Produces LockCreated notification.
func CreateLock(owner, asset interop.Hash160, amount, duration int) int {
	ctx := storage.GetContext()
	engineEnter(ctx)

	common.CheckOwnerWitness(owner)
	if management.GetContract(asset) == nil {
		panic("createLock: asset is not a contract")
	}
	if amount <= 0 {
		panic("createLock: non positive amount")
	}
	if duration < 0 {
		panic("createLock: negative duration")
	}

	s := getSettings(ctx)
	now := runtime.GetTime()

	id := nextLockID(ctx)
	l := Lock{
		Owner:      owner,
		Asset:      asset,
		Amount:     amount,
		StartTime:  now,
		UnlockTime: now + duration,
	}
	putLock(ctx, id, l)

	pullAsset(asset, owner, amount)
	pullFee(owner, s)
	engineExit(ctx)

	runtime.Notify("LockCreated", id, l.Owner, l.Asset, l.Amount, l.StartTime, l.UnlockTime)
	return id
}

// AddToLock escrows amount more of the lock's asset under an existing lock.
// Can be invoked only by the lock owner. The lock's unlock time is not
// extended. Charges the same flat GAS fee as CreateLock.
//
// Produces LockUpdated notification.
func AddToLock(id, amount int) {
	ctx := storage.GetContext()
	engineEnter(ctx)

	l := getLock(ctx, id)
	if len(l.Owner) == 0 {
		panic("addToLock: lock does not exist")
	}
	common.CheckOwnerWitness(l.Owner)
	if amount <= 0 {
		panic("addToLock: non positive amount")
	}

	s := getSettings(ctx)

	l.Amount += amount
	putLock(ctx, id, l)

	pullAsset(l.Asset, l.Owner, amount)
	pullFee(l.Owner, s)
	engineExit(ctx)

	runtime.Notify("LockUpdated", id, l.Owner, l.Asset, l.Amount, l.StartTime, l.UnlockTime)
}

// Withdraw releases amount of the lock's asset back to the lock owner. Can
// be invoked only by the lock owner, free of charge. Requesting more than
// the lock holds withdraws everything remaining. Before the unlock time a
// penalty computed from the current settings rate is cut from the released
// amount and sent to the fee recipient; the owner receives the rest. At or
// after the unlock time the owner receives the full amount.
//
// The stored amount is reduced before any asset leaves custody, and the
// penalty plus the owner payout always equal exactly the amount deducted.
//
// Produces LockUpdated notification.
func Withdraw(id, amount int) {
	ctx := storage.GetContext()
	engineEnter(ctx)

	l := getLock(ctx, id)
	if len(l.Owner) == 0 {
		panic("withdraw: lock does not exist")
	}
	common.CheckOwnerWitness(l.Owner)
	if amount < 0 {
		panic("withdraw: negative amount")
	}
	if amount > l.Amount {
		amount = l.Amount
	}

	s := getSettings(ctx)
	now := runtime.GetTime()

	l.Amount -= amount
	putLock(ctx, id, l)

	if now < l.UnlockTime {
		penalty := common.Proportional(amount, s.PenaltyBps)
		pushAsset(l.Asset, s.FeeRecipient, penalty)
		pushAsset(l.Asset, l.Owner, amount-penalty)
	} else {
		pushAsset(l.Asset, l.Owner, amount)
	}
	engineExit(ctx)

	runtime.Notify("LockUpdated", id, l.Owner, l.Asset, l.Amount, l.StartTime, l.UnlockTime)
}

// GetLock returns the lock record with the given identifier. For unknown
// identifiers it returns the zero record, the owner field of a created lock
// is never empty.
func GetLock(id int) Lock {
	ctx := storage.GetReadOnlyContext()
	return getLock(ctx, id)
}

// LockCounter returns the last allocated lock identifier.
func LockCounter() int {
	ctx := storage.GetReadOnlyContext()
	return lockCounter(ctx)
}

// Locks returns an iterator over all lock records ever created.
func Locks() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, lockKeyPrefix, storage.DeserializeValues|storage.RemovePrefix)
}

// GetSettings returns the current ledger configuration record.
func GetSettings() Settings {
	ctx := storage.GetReadOnlyContext()
	return getSettings(ctx)
}

// UpdateSettings atomically replaces the ledger configuration record. Can be
// invoked only by the contract administrator. The values are stored as
// given, a penalty rate above 10000 basis points makes every early
// withdrawal fail, see the contract documentation.
//
// Produces SettingsUpdated notification.
func UpdateSettings(feeRecipient interop.Hash160, fee, penaltyBps int) {
	ctx := storage.GetContext()
	common.CheckAdminWitness(getAdmin(ctx))

	if len(feeRecipient) != interop.Hash160Len {
		panic("updateSettings: incorrect length of fee recipient script hash")
	}
	if fee < 0 {
		panic("updateSettings: negative fee")
	}

	common.SetSerialized(ctx, settingsKey, Settings{
		FeeRecipient: feeRecipient,
		Fee:          fee,
		PenaltyBps:   penaltyBps,
	})

	runtime.Log("updateSettings: configuration has been updated")
	runtime.Notify("SettingsUpdated", feeRecipient, fee, penaltyBps)
}

// Admin returns the contract administrator account.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getAdmin(ctx)
}

// ChangeAdmin starts the two-step administrator handover: the current
// administrator names a successor who must then call AcceptAdmin. Calling
// ChangeAdmin again replaces a pending successor.
func ChangeAdmin(newAdmin interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckAdminWitness(getAdmin(ctx))

	if len(newAdmin) != interop.Hash160Len {
		panic("changeAdmin: incorrect length of admin script hash")
	}

	storage.Put(ctx, pendingAdminKey, newAdmin)
	runtime.Log("changeAdmin: administrator handover started")
}

// AcceptAdmin completes the administrator handover started by ChangeAdmin.
// Can be invoked only by the pending administrator.
//
// Produces AdminChanged notification.
func AcceptAdmin() {
	ctx := storage.GetContext()

	data := storage.Get(ctx, pendingAdminKey)
	if data == nil {
		panic("acceptAdmin: no pending administrator")
	}
	pending := data.(interop.Hash160)
	common.CheckWitness(pending)

	old := getAdmin(ctx)
	storage.Put(ctx, adminKey, pending)
	storage.Delete(ctx, pendingAdminKey)

	runtime.Log("acceptAdmin: administrator handover completed")
	runtime.Notify("AdminChanged", old, pending)
}

// OnNEP17Payment is a callback for NEP-17 transfers into the contract
// account. Assets are accepted only while a deposit operation is in flight,
// tokens sent directly would not be attributed to any lock and are
// rejected.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	if storage.Get(ctx, inFlightKey) == nil {
		panic("onNEP17Payment: direct transfers are not accepted")
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// engineEnter takes the non-reentrant engine guard. An asset contract
// invoked during a transfer cannot call back into any mutating method until
// the enclosing operation released the guard; the panic faults the whole
// transaction, so a failed operation leaves no trace of the flag either.
func engineEnter(ctx storage.Context) {
	if storage.Get(ctx, inFlightKey) != nil {
		panic("reentrant call")
	}
	storage.Put(ctx, inFlightKey, true)
}

func engineExit(ctx storage.Context) {
	storage.Delete(ctx, inFlightKey)
}

// pullAsset moves amount of the NEP-17 asset from the user into contract
// custody. The asset contract verifies the witness of from itself.
func pullAsset(asset, from interop.Hash160, amount int) {
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(asset, "transfer", contract.All, from, self, amount, nil).(bool)
	if !ok {
		panic("asset transfer failed")
	}
}

// pushAsset moves amount of the NEP-17 asset out of contract custody.
func pushAsset(asset, to interop.Hash160, amount int) {
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(asset, "transfer", contract.All, self, to, amount, nil).(bool)
	if !ok {
		panic("asset payout failed")
	}
}

// pullFee routes the flat deposit fee in GAS from the payer to the fee
// recipient. Failure to collect the exact fee aborts the operation.
func pullFee(from interop.Hash160, s Settings) {
	if s.Fee == 0 {
		return
	}
	if !gas.Transfer(from, s.FeeRecipient, s.Fee, nil) {
		panic("insufficient fee payment")
	}
}

func lockKey(id int) []byte {
	return append(lockKeyPrefix, std.Itoa(id, 10)...)
}

func nextLockID(ctx storage.Context) int {
	id := lockCounter(ctx) + 1
	storage.Put(ctx, counterKey, id)
	return id
}

func lockCounter(ctx storage.Context) int {
	data := storage.Get(ctx, counterKey)
	if data != nil {
		return data.(int)
	}
	return 0
}

func getLock(ctx storage.Context, id int) Lock {
	data := storage.Get(ctx, lockKey(id))
	if data != nil {
		return std.Deserialize(data.([]byte)).(Lock)
	}
	return Lock{Owner: []byte{}, Asset: []byte{}}
}

func putLock(ctx storage.Context, id int, l Lock) {
	common.SetSerialized(ctx, lockKey(id), l)
}

func getSettings(ctx storage.Context) Settings {
	data := storage.Get(ctx, settingsKey)
	return std.Deserialize(data.([]byte)).(Settings)
}

func getAdmin(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, adminKey).(interop.Hash160)
}
