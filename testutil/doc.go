// Package testutil provides recording components for lifecycle tests.
//
// A Recorder collects events in the order they happen. Probe is a
// component that records its Init and Shutdown calls into a Recorder, so a
// test can assert ordering across many components:
//
//	rec := testutil.NewRecorder()
//	app.Register(component.NewFactory("", func(*component.BuildContext, string) (*dbProbe, error) {
//		return &dbProbe{testutil.NewProbe("db", rec)}, nil
//	}))
//	...
//	rec.Filter("shutdown:") // [shutdown:http shutdown:db]
//
// T wraps a *testing.T to initialize a single component and shut it down
// automatically when the test ends. GenerateCerts writes a throwaway CA
// and leaf certificate for TLS tests.
package testutil
