package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/chainlock/timelock-contract/rpc/timelock"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Iterator pages are fetched in chunks of this size, the same value is used
// as a fallback limit for servers without session support.
const locksPageSize = 100

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddr := flag.String("contract", "", "LE script hash of the TimeLock contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddr == "":
		log.Fatal("missing TimeLock contract address")
	}

	h, err := util.Uint160DecodeStringLE(*contractAddr)
	if err != nil {
		log.Fatal(fmt.Errorf("invalid contract address: %w", err))
	}

	err = listLocks(*neoRPCEndpoint, h)
	if err != nil {
		log.Fatal(err)
	}
}

func listLocks(neoRPCEndpoint string, contract util.Uint160) error {
	c, err := rpcclient.New(context.Background(), neoRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("RPC client dial: %w", err)
	}

	defer c.Close()

	inv := invoker.New(c, nil)
	reader := timelock.NewReader(inv, contract)

	settings, err := reader.GetSettings()
	if err != nil {
		return fmt.Errorf("get contract settings: %w", err)
	}

	counter, err := reader.LockCounter()
	if err != nil {
		return fmt.Errorf("get lock counter: %w", err)
	}

	fmt.Printf("fee recipient: %s\n", address.Uint160ToString(settings.FeeRecipient))
	fmt.Printf("deposit fee:   %s GAS\n", fixedn.ToString(settings.Fee, 8))
	fmt.Printf("penalty rate:  %s basis points\n", settings.PenaltyBps)
	fmt.Printf("locks created: %s\n\n", counter)

	items, err := fetchLockItems(inv, reader)
	if err != nil {
		return fmt.Errorf("fetch lock records: %w", err)
	}

	now := time.Now().UnixMilli()

	for i := range items {
		var l timelock.Lock

		err = l.FromStackItem(items[i])
		if err != nil {
			return fmt.Errorf("invalid lock record #%d: %w", i, err)
		}

		state := "locked"
		if l.UnlockTime.Int64() <= now {
			state = "unlocked"
		}
		if l.Amount.Sign() == 0 {
			state = "empty"
		}

		fmt.Printf("owner %s asset %s amount %s unlocks %s (%s)\n",
			address.Uint160ToString(l.Owner), l.Asset.StringLE(), l.Amount,
			time.UnixMilli(l.UnlockTime.Int64()).UTC().Format(time.RFC3339), state)
	}

	return nil
}

// fetchLockItems pages through the contract's lock iterator, falling back to
// iterator expansion when the server has sessions disabled.
func fetchLockItems(inv *invoker.Invoker, reader *timelock.ContractReader) ([]stackitem.Item, error) {
	sessionID, iter, err := reader.Locks()
	if err != nil {
		return reader.LocksExpanded(locksPageSize)
	}

	defer func() {
		_ = inv.TerminateSession(sessionID)
	}()

	var items []stackitem.Item

	for {
		page, err := inv.TraverseIterator(sessionID, &iter, locksPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return items, nil
		}

		items = append(items, page...)
	}
}
