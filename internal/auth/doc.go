// Package auth translates UI level calls into remote auth gateway requests.
//
// The Client never returns errors for expected failures. Gateway rejections
// and transport failures are folded into result values carrying the message
// to show:
//
//	res := client.Login(ctx, scope, email, password)
//	if !res.Success {
//	    return render(res.Error)
//	}
//
// Successful logins write token, refresh token, user and tenant into the
// session store of the browser scope. VerifyStoredToken is the only path
// that purges a stored session which the gateway no longer accepts.
package auth
