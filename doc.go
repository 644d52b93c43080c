// Package arraystream transforms JSON documents whose top level value is an
// array, one element at a time.
//
// The input is read with a json.ArrayReader, which decodes a single element
// of the array into a value.Value, and the output is written with a
// json.ArrayWriter as soon as the element has been transformed.  So memory
// usage depends on the size of the largest element, not on the size of the
// document:
//
//	n, err := arraystream.Transform(ctx, os.Stdin, os.Stdout,
//		transform.Set(transform.MustParsePath("_source.lexiconName"), value.String("Core")))
//
// Processing stops at the first error.  The output is then left without its
// closing ']', so a failed run never looks like a valid, shorter, array.
//
// The package is organized as follows:
//
//   - value: JSON values
//   - encoding/json: token level decoder and encoder, ArrayReader and ArrayWriter
//   - transform: rules that edit fields of object elements
//   - token: the tokens exchanged between decoders, values and encoders
//
// The jmap command in cmd/jmap applies transform rules to a file.  You can
// install it with:
//
//	go install github.com/arnodel/arraystream/cmd/jmap@latest
package arraystream
