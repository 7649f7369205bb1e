package stacks

import "fmt"

// PayloadType is the wire tag of a transaction payload.
type PayloadType byte

const (
	PayloadTokenTransfer          PayloadType = 0x00
	PayloadSmartContract          PayloadType = 0x01
	PayloadContractCall           PayloadType = 0x02
	PayloadPoisonMicroblock       PayloadType = 0x03
	PayloadCoinbase               PayloadType = 0x04
	PayloadCoinbaseToAltRecipient PayloadType = 0x05
	PayloadVersionedSmartContract PayloadType = 0x06
	PayloadTenureChange           PayloadType = 0x07
	PayloadNakamotoCoinbase       PayloadType = 0x08
)

var payloadTypeNames = map[PayloadType]string{
	PayloadTokenTransfer:          "token_transfer",
	PayloadSmartContract:          "smart_contract",
	PayloadContractCall:           "contract_call",
	PayloadPoisonMicroblock:       "poison_microblock",
	PayloadCoinbase:               "coinbase",
	PayloadCoinbaseToAltRecipient: "coinbase_to_alt_recipient",
	PayloadVersionedSmartContract: "versioned_smart_contract",
	PayloadTenureChange:           "tenure_change",
	PayloadNakamotoCoinbase:       "nakamoto_coinbase",
}

func (p PayloadType) String() string {
	if name, ok := payloadTypeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(p))
}

// Payload is the variant part of a transaction. Consumers inspect it with a
// type switch over the concrete types below.
type Payload interface {
	Type() PayloadType
}

// Principal is a standard principal (contract name empty) or a contract principal.
type Principal struct {
	Address      Address
	ContractName string
}

func (p Principal) String() string {
	if p.ContractName == "" {
		return p.Address.String()
	}
	return p.Address.String() + "." + p.ContractName
}

// TokenTransfer moves STX to a recipient.
type TokenTransfer struct {
	Recipient Principal
	Amount    uint64
	Memo      [34]byte
}

func (TokenTransfer) Type() PayloadType { return PayloadTokenTransfer }

// SmartContract deploys a Clarity contract.
type SmartContract struct {
	Name string
	Code string
}

func (SmartContract) Type() PayloadType { return PayloadSmartContract }

// VersionedSmartContract deploys a contract pinned to a Clarity version.
type VersionedSmartContract struct {
	ClarityVersion byte
	Name           string
	Code           string
}

func (VersionedSmartContract) Type() PayloadType { return PayloadVersionedSmartContract }

// ContractCall invokes a public function of a deployed contract.
type ContractCall struct {
	Address      Address
	ContractName string
	FunctionName string
	// Args holds each argument's serialized Clarity value.
	Args [][]byte
}

func (ContractCall) Type() PayloadType { return PayloadContractCall }

// ContractID returns "<address>.<contract name>".
func (c ContractCall) ContractID() string {
	return c.Address.String() + "." + c.ContractName
}

// Coinbase is a miner reward payload, optionally paid to an alternate recipient.
type Coinbase struct {
	Buffer    [32]byte
	Recipient *Principal
}

func (c Coinbase) Type() PayloadType {
	if c.Recipient != nil {
		return PayloadCoinbaseToAltRecipient
	}
	return PayloadCoinbase
}

// OpaquePayload is a variant whose body the pipeline does not interpret
// (poison microblock, tenure change, Nakamoto coinbase).
type OpaquePayload struct {
	Kind PayloadType
	Body []byte
}

func (o OpaquePayload) Type() PayloadType { return o.Kind }
