// Package register registers all post processors.
package register

import (
	// register post processors.
	_ "go.viam.com/robotpost/postprocessor/igus"
	_ "go.viam.com/robotpost/postprocessor/rapid"
)
