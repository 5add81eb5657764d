package reenter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Fake NEP-17 token that abuses its transfer callback to reenter the
// TimeLock engine. Used to test the reentrancy guard.

const targetKey = "target"

func SetTarget(target interop.Hash160) {
	storage.Put(storage.GetContext(), targetKey, target)
}

func Symbol() string {
	return "EVIL"
}

func Decimals() int {
	return 8
}

func BalanceOf(holder interop.Hash160) int {
	return 0
}

func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	target := storage.Get(storage.GetReadOnlyContext(), targetKey).(interop.Hash160)
	contract.Call(target, "withdraw", contract.All, 1, 1)
	runtime.Notify("Transfer", from, to, amount)
	return true
}
