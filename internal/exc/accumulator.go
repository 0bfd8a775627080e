// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import "sync"

// Reporter is used to accumulate and report errors during compilation. The
// general idea is that compilation processes can decide to report an error but
// continue processing rather than fail outright in some cases. The final error
// set can then be shown to the user.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions in report order.
	Reported() []Exception
	// IsFatal reports whether the given exception fails compilation.
	IsFatal(Exception) bool
}

// NewReporter returns a concurrent-safe implementation of Reporter.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
		},
		lock: &sync.Mutex{},
	}
}

// Fatal filters the reported set down to the fatal exceptions.
func Fatal(r Reporter) []Exception {
	var result []Exception
	for _, e := range r.Reported() {
		if r.IsFatal(e) {
			result = append(result, e)
		}
	}
	return result
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	result := make([]Exception, len(r.reported))
	copy(result, r.reported)
	return result
}

func (r *reporter) IsFatal(e Exception) bool {
	return !r.nonFatal[e.Code()]
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Reported()
}

func (r *reporterLock) IsFatal(e Exception) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.IsFatal(e)
}
