package walletsdk

// Method identifies an outbound wallet-host RPC method. The set is closed:
// the facade refuses to dispatch anything outside it.
type Method string

const (
	MethodAccountRequest       Method = "account.request"
	MethodAccountList          Method = "account.list"
	MethodCurrencyList         Method = "currency.list"
	MethodAccountReceive       Method = "account.receive"
	MethodTransactionSign      Method = "transaction.sign"
	MethodTransactionBroadcast Method = "transaction.broadcast"

	// Reserved: declared for wire compatibility, not yet served.
	MethodTransactionEstimate Method = "transaction.estimateFees"
	MethodAccountSynchronize  Method = "account.synchronize"
	MethodExchangeInit        Method = "exchange.init"
	MethodExchangeComplete    Method = "exchange.complete"
	MethodDeviceInfo          Method = "device.info"
	MethodDeviceApps          Method = "device.apps"
	MethodDeviceOpen          Method = "device.open"
	MethodDeviceExchange      Method = "device.exchange"
	MethodDeviceClose         Method = "device.close"
)

var methodSet = map[Method]bool{
	MethodAccountRequest:       true,
	MethodAccountList:          true,
	MethodCurrencyList:         true,
	MethodAccountReceive:       true,
	MethodTransactionSign:      true,
	MethodTransactionBroadcast: true,
	MethodTransactionEstimate:  true,
	MethodAccountSynchronize:   true,
	MethodExchangeInit:         true,
	MethodExchangeComplete:     true,
	MethodDeviceInfo:           true,
	MethodDeviceApps:           true,
	MethodDeviceOpen:           true,
	MethodDeviceExchange:       true,
	MethodDeviceClose:          true,
}

// IsValid reports whether m belongs to the wallet-host method set.
func (m Method) IsValid() bool { return methodSet[m] }
