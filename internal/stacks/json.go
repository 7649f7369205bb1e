package stacks

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRaw is returned when a JSON transaction has no "raw" field to decode from.
var ErrMissingRaw = errors.New("transaction json has no raw bytes")

type postConditionJSON struct {
	Type          string `json:"type"`
	Principal     string `json:"principal"`
	ConditionCode byte   `json:"condition_code"`
	Asset         string `json:"asset,omitempty"`
	Amount        uint64 `json:"amount,omitempty"`
}

type payloadJSON struct {
	Type           string   `json:"type"`
	ContractID     string   `json:"contract_id,omitempty"`
	ContractName   string   `json:"contract_name,omitempty"`
	FunctionName   string   `json:"function_name,omitempty"`
	FunctionArgs   []string `json:"function_args,omitempty"`
	Recipient      string   `json:"recipient,omitempty"`
	Amount         uint64   `json:"amount,omitempty"`
	Memo           string   `json:"memo,omitempty"`
	ClarityVersion byte     `json:"clarity_version,omitempty"`
	Code           string   `json:"code,omitempty"`
	Buffer         string   `json:"buffer,omitempty"`
}

type transactionJSON struct {
	TxID              string              `json:"txid"`
	Version           string              `json:"version"`
	ChainID           uint32              `json:"chain_id"`
	AuthType          string              `json:"auth_type"`
	Sender            string              `json:"sender"`
	Nonce             uint64              `json:"nonce"`
	Fee               uint64              `json:"fee"`
	Sponsor           string              `json:"sponsor,omitempty"`
	SponsorFee        uint64              `json:"sponsor_fee,omitempty"`
	AnchorMode        string              `json:"anchor_mode"`
	PostConditionMode string              `json:"post_condition_mode"`
	PostConditions    []postConditionJSON `json:"post_conditions"`
	Payload           payloadJSON         `json:"payload"`
	Raw               string              `json:"raw"`
}

func hexPrefixed(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func payloadView(p Payload) payloadJSON {
	if p == nil {
		return payloadJSON{}
	}

	view := payloadJSON{Type: p.Type().String()}
	switch p := p.(type) {
	case ContractCall:
		view.ContractID = p.ContractID()
		view.ContractName = p.ContractName
		view.FunctionName = p.FunctionName
		view.FunctionArgs = make([]string, 0, len(p.Args))
		for _, arg := range p.Args {
			view.FunctionArgs = append(view.FunctionArgs, hexPrefixed(arg))
		}
	case TokenTransfer:
		view.Recipient = p.Recipient.String()
		view.Amount = p.Amount
		view.Memo = hexPrefixed(p.Memo[:])
	case SmartContract:
		view.ContractName = p.Name
		view.Code = p.Code
	case VersionedSmartContract:
		view.ContractName = p.Name
		view.ClarityVersion = p.ClarityVersion
		view.Code = p.Code
	case Coinbase:
		view.Buffer = hexPrefixed(p.Buffer[:])
		if p.Recipient != nil {
			view.Recipient = p.Recipient.String()
		}
	}
	return view
}

// MarshalJSON renders a readable view of the transaction together with its
// raw wire bytes.
func (t Transaction) MarshalJSON() ([]byte, error) {
	view := transactionJSON{
		TxID:              t.TxID(),
		Version:           t.Version.String(),
		ChainID:           t.ChainID,
		AuthType:          t.Auth.Type.String(),
		Sender:            t.Sender().String(),
		Nonce:             t.Auth.Origin.Nonce,
		Fee:               t.Auth.Origin.Fee,
		AnchorMode:        t.AnchorMode.String(),
		PostConditionMode: t.PostConditionMode.String(),
		PostConditions:    make([]postConditionJSON, 0, len(t.PostConditions)),
		Payload:           payloadView(t.Payload),
		Raw:               hex.EncodeToString(t.Raw),
	}

	if sponsor := t.Auth.Sponsor; sponsor != nil {
		view.Sponsor = sponsor.SignerAddress(t.Version).String()
		view.SponsorFee = sponsor.Fee
	}

	for _, pc := range t.PostConditions {
		view.PostConditions = append(view.PostConditions, postConditionJSON{
			Type:          pc.Type.String(),
			Principal:     pc.Principal,
			ConditionCode: pc.ConditionCode,
			Asset:         pc.Asset,
			Amount:        pc.Amount,
		})
	}

	return json.Marshal(view)
}

// UnmarshalJSON restores a transaction by decoding its "raw" field; the
// readable fields are ignored.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var view struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}
	if view.Raw == "" {
		return ErrMissingRaw
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(view.Raw, "0x"))
	if err != nil {
		return fmt.Errorf("invalid raw transaction hex: %w", err)
	}

	tx, err := Decode(raw)
	if err != nil {
		return err
	}

	*t = tx
	return nil
}
