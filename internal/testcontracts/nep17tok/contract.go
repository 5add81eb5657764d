package nep17tok

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Minimal NEP-17 fungible token used as an escrow asset in tests. Anyone
// can mint.

const totalSupplyKey = "totalSupply"

func Symbol() string {
	return "TSTT"
}

func Decimals() int {
	return 8
}

func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), totalSupplyKey)
}

func BalanceOf(holder interop.Hash160) int {
	if len(holder) != interop.Hash160Len {
		panic("invalid holder")
	}
	return getInt(storage.GetReadOnlyContext(), holder)
}

func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid addresses")
	}
	if amount < 0 {
		panic("negative amount")
	}
	if !runtime.CheckWitness(from) && !bytesEqual(from, runtime.GetCallingScriptHash()) {
		return false
	}

	ctx := storage.GetContext()
	fromBalance := getInt(ctx, from)
	if fromBalance < amount {
		return false
	}

	storage.Put(ctx, from, fromBalance-amount)
	storage.Put(ctx, to, getInt(ctx, to)+amount)

	runtime.Notify("Transfer", from, to, amount)
	postTransfer(from, to, amount, data)
	return true
}

func Mint(to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic("invalid recipient")
	}
	if amount <= 0 {
		panic("non positive amount")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, to, getInt(ctx, to)+amount)
	storage.Put(ctx, totalSupplyKey, getInt(ctx, totalSupplyKey)+amount)

	var from interop.Hash160
	runtime.Notify("Transfer", from, to, amount)
	postTransfer(nil, to, amount, nil)
}

func postTransfer(from, to interop.Hash160, amount int, data interface{}) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func getInt(ctx storage.Context, key interface{}) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}
	return 0
}

func bytesEqual(a []byte, b []byte) bool {
	return string(a) == string(b)
}
