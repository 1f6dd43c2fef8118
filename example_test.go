package xmlbind_test

import (
	"fmt"

	"github.com/jacoelho/xmlbind"
	"github.com/jacoelho/xmlbind/errors"
)

type size struct {
	Width  uint32
	Height uint32
	Unit   string
}

var sizeRecord = xmlbind.MustRecord("size",
	xmlbind.Attr("width", func(s *size) *uint32 { return &s.Width }, xmlbind.Uint32),
	xmlbind.Attr("height", func(s *size) *uint32 { return &s.Height }, xmlbind.Uint32),
	xmlbind.Attr("unit", func(s *size) *string { return &s.Unit }, xmlbind.String, xmlbind.Default("px")),
)

func ExampleUnmarshal() {
	s, err := xmlbind.Unmarshal(sizeRecord, []byte(`<size width="640" height="480"/>`))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(s.Width, s.Height, s.Unit)
	// Output: 640 480 px
}

func ExampleMarshal() {
	out, err := xmlbind.Marshal(sizeRecord, size{Width: 3, Height: 4, Unit: "cm"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(string(out))
	// Output: <size width="3" height="4" unit="cm"/>
}

func ExampleUnmarshal_missingField() {
	_, err := xmlbind.Unmarshal(sizeRecord, []byte(`<size width="640"/>`))
	if be, ok := errors.As(err); ok {
		fmt.Println(be.Kind, be.Type, be.Field)
	}
	// Output: missing-required-field size height
}

type cardinal uint8

const (
	north cardinal = iota
	south
)

func ExampleNewEnum() {
	codec := xmlbind.MustEnum("cardinal",
		xmlbind.Case(north, "N"),
		xmlbind.Case(south, "S"),
	)
	v, err := codec.DecodeBuf([]byte("S"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	out, _ := codec.AppendBuf(nil, north)
	fmt.Println(v == south, string(out))
	// Output: true N
}
