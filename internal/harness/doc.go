// Package harness runs end-to-end pipeline scenarios against a scripted
// stand-in for the external engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: horner
//	description: "Nested Horner form packs into two scratch slots"
//	expressions:
//	  - x*(1+x*(y+x*z))
//	variables: [x, y, z]
//	responses:
//	  "y+x*z": "tmp1=x*z;tmp2=y+tmp1;out=tmp2;"
//	  "1+x*frag0": "tmp1=x*frag0;tmp2=1+tmp1;out=tmp2;"
//	expect_fragments: 2
//	expect_slots: 2
//
// The responses map scripts the engine, keyed by fragment body text; the
// final target of each scripted program is renamed positionally, exactly
// like real engine output. Fragments without a scripted response are echoed
// unchanged.
//
// # Deterministic Testing
//
// Every stage of the pipeline is a deterministic function of its input, so
// a scenario's emitted C text is stable byte for byte. RunWithGolden
// compares it against testdata/golden/{name}.golden via goldie; regenerate
// with:
//
//	go test ./internal/harness -update
package harness
