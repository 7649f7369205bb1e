package stacks

import "fmt"

// Clarity value type prefixes.
const (
	clarityInt               byte = 0x00
	clarityUInt              byte = 0x01
	clarityBuffer            byte = 0x02
	clarityBoolTrue          byte = 0x03
	clarityBoolFalse         byte = 0x04
	clarityStandardPrincipal byte = 0x05
	clarityContractPrincipal byte = 0x06
	clarityResponseOk        byte = 0x07
	clarityResponseErr       byte = 0x08
	clarityOptionalNone      byte = 0x09
	clarityOptionalSome      byte = 0x0a
	clarityList              byte = 0x0b
	clarityTuple             byte = 0x0c
	clarityStringASCII       byte = 0x0d
	clarityStringUTF8        byte = 0x0e
)

// maxValueDepth bounds nesting of composite Clarity values.
const maxValueDepth = 32

// readValue consumes one serialized Clarity value and returns its bytes.
func readValue(r *reader) ([]byte, error) {
	start := r.off
	if err := skipValue(r, 0); err != nil {
		return nil, err
	}
	return r.buf[start:r.off], nil
}

func skipValue(r *reader, depth int) error {
	if depth > maxValueDepth {
		return fmt.Errorf("clarity value nested deeper than %d", maxValueDepth)
	}

	tag, err := r.u8()
	if err != nil {
		return err
	}

	switch tag {
	case clarityInt, clarityUInt:
		_, err = r.take(16)
	case clarityBoolTrue, clarityBoolFalse, clarityOptionalNone:
	case clarityBuffer, clarityStringASCII, clarityStringUTF8:
		_, err = r.longString()
	case clarityStandardPrincipal:
		_, err = r.address()
	case clarityContractPrincipal:
		if _, err = r.address(); err == nil {
			_, err = r.shortString()
		}
	case clarityResponseOk, clarityResponseErr, clarityOptionalSome:
		err = skipValue(r, depth+1)
	case clarityList:
		err = skipSequence(r, depth, false)
	case clarityTuple:
		err = skipSequence(r, depth, true)
	default:
		err = fmt.Errorf("unknown clarity value type 0x%02x", tag)
	}
	return err
}

// skipSequence consumes the body of a list, or of a tuple when named is set.
func skipSequence(r *reader, depth int, named bool) error {
	n, err := r.u32()
	if err != nil {
		return err
	}
	if int64(n) > int64(r.remaining()) {
		return fmt.Errorf("sequence length %d exceeds remaining %d bytes", n, r.remaining())
	}

	for i := uint32(0); i < n; i++ {
		if named {
			if _, err := r.shortString(); err != nil {
				return err
			}
		}
		if err := skipValue(r, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// readPrincipalValue reads a principal serialized as a Clarity value.
func readPrincipalValue(r *reader) (Principal, error) {
	var p Principal

	tag, err := r.u8()
	if err != nil {
		return p, err
	}

	switch tag {
	case clarityStandardPrincipal:
		p.Address, err = r.address()
	case clarityContractPrincipal:
		if p.Address, err = r.address(); err == nil {
			p.ContractName, err = r.shortString()
		}
	default:
		err = fmt.Errorf("expected principal value, got type 0x%02x", tag)
	}
	return p, err
}
