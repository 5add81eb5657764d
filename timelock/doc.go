/*
TimeLock contract is a custodial escrow ledger for NEP-17 tokens.

Users commit a quantity of one token to remain under contract custody until
an unlock time. Each commitment is a lock record with its own identifier;
many locks may exist per owner and per token, and locks are fully
independent. Creation and every additional deposit cost a flat GAS fee
routed to the configured fee recipient. Withdrawal is free; withdrawing
before the unlock time cuts a proportional penalty, expressed in basis
points, from the released amount and routes it to the same fee recipient.

The contract keeps one custodied balance per token while tracking the
obligation per lock: at any point the sum of lock amounts of a token equals
the contract's balance in that token. To protect this invariant the
contract rejects tokens transferred to it directly, outside CreateLock or
AddToLock, and refuses reentrant calls from asset contracts invoked during
a transfer.

Configuration (fee recipient, flat fee, penalty rate) is a single settings
record replaced atomically by the contract administrator. The administrator
capability itself moves only through a two-step handover: the current
administrator names a successor and the successor accepts. The penalty rate
is stored as given; a rate above 10000 basis points is not rejected and
makes every early withdrawal fail, since the penalty would exceed the
withdrawn amount.

# Contract notifications

LockCreated notification. Produced when a new lock is created, carries the
full record.

	LockCreated:
	  - name: id
	    type: Integer
	  - name: owner
	    type: Hash160
	  - name: asset
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: startTime
	    type: Integer
	  - name: unlockTime
	    type: Integer

LockUpdated notification. Produced after every deposit to and withdrawal
from an existing lock, carries the full record after the mutation.

	LockUpdated:
	  - name: id
	    type: Integer
	  - name: owner
	    type: Hash160
	  - name: asset
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: startTime
	    type: Integer
	  - name: unlockTime
	    type: Integer

SettingsUpdated notification. Produced when the administrator replaces the
settings record.

	SettingsUpdated:
	  - name: feeRecipient
	    type: Hash160
	  - name: fee
	    type: Integer
	  - name: penaltyBps
	    type: Integer

AdminChanged notification. Produced when an administrator handover is
completed.

	AdminChanged:
	  - name: oldAdmin
	    type: Hash160
	  - name: newAdmin
	    type: Hash160
*/
package timelock
