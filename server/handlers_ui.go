package server

import (
	"html/template"
	"net/http"
)

// loginPageTemplate renders the authorization server's credential form.
// The forwarded OAuth parameters ride along as hidden inputs and are
// posted back to the authenticate endpoint untouched; the page then
// navigates to whatever redirect_to it is given.
const loginPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Sign in | {{.AppName}}</title>
	<style>
		body { font-family: sans-serif; background: #fcfcfc; display: flex; justify-content: center; padding-top: 10vh; }
		form { background: #fff; border: 1px solid #ddd; border-radius: 8px; padding: 2rem; width: 320px; }
		input { display: block; width: 100%; margin: .5rem 0 1rem; padding: .5rem; box-sizing: border-box; }
		button { width: 100%; padding: .6rem; }
		#error { color: #b00; min-height: 1.2em; }
	</style>
</head>
<body>
	<form id="login-form">
		<h1>Sign in</h1>
		<p id="error"></p>
		<label>Username <input name="username" autocomplete="username" required></label>
		<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
		<button type="submit">Continue</button>
	</form>
	<script>
	document.getElementById("login-form").addEventListener("submit", async function (e) {
		e.preventDefault();
		const query = new URLSearchParams(window.location.search);
		const body = {
			username: this.username.value,
			password: this.password.value,
			client_id: query.get("client_id"),
			redirect_uri: query.get("redirect_uri"),
			response_type: query.get("response_type"),
			state: query.get("state"),
			code_challenge: query.get("code_challenge"),
			code_challenge_method: query.get("code_challenge_method"),
		};
		const res = await fetch("{{.AuthenticateRoute}}", {
			method: "POST",
			headers: { "Content-Type": "application/json" },
			body: JSON.stringify(body),
		});
		const data = await res.json();
		if (res.ok && data.redirect_to) {
			window.location.href = data.redirect_to;
		} else {
			document.getElementById("error").textContent = data.error || "Login failed";
		}
	});
	</script>
</body>
</html>`

// indexPageTemplate is the dashboard: it acquires an access token through
// silent refresh, keeps it only in a JS variable, and calls the protected
// profile endpoint with it.
const indexPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.AppName}}</title>
	<style>
		body { font-family: sans-serif; max-width: 640px; margin: 4rem auto; }
		pre { background: #f4f4f4; padding: 1rem; border-radius: 6px; overflow-x: auto; }
		button { margin-right: .5rem; padding: .5rem 1rem; }
	</style>
</head>
<body>
	<h1>{{.AppName}}</h1>
	<p>Access token (memory only): <code id="token">none</code></p>
	<button id="profile">Fetch profile</button>
	<button id="logout">Logout</button>
	<pre id="output">-</pre>
	<script>
	let accessToken = null;

	async function refresh() {
		const res = await fetch("{{.RefreshRoute}}", { method: "POST" });
		if (!res.ok) {
			window.location.href = "{{.SigninRoute}}";
			return;
		}
		const data = await res.json();
		accessToken = data.access_token;
		document.getElementById("token").textContent = accessToken.slice(0, 24) + "...";
		setTimeout(refresh, Math.max((data.expires_in - 5) * 1000, 1000));
	}

	document.getElementById("profile").addEventListener("click", async () => {
		const res = await fetch("{{.ProfileRoute}}", {
			headers: { "Authorization": "Bearer " + accessToken },
		});
		document.getElementById("output").textContent = JSON.stringify(await res.json(), null, 2);
	});

	document.getElementById("logout").addEventListener("click", async () => {
		await fetch("{{.LogoutRoute}}", { method: "POST" });
		window.location.href = "{{.SigninRoute}}";
	});

	refresh();
	</script>
</body>
</html>`

// LoginPageHandler serves the credential form the authorize endpoint
// redirects to.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl := template.Must(template.New("login").Parse(loginPageTemplate))

	data := map[string]string{
		"AppName":           s.config.GetAppName(),
		"AuthenticateRoute": RouteOAuthAuthenticate,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}

// IndexHandler renders the dashboard page.
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := template.Must(template.New("index").Parse(indexPageTemplate))

	data := map[string]string{
		"AppName":      s.config.GetAppName(),
		"RefreshRoute": RouteBFFRefresh,
		"SigninRoute":  RouteBFFSignin,
		"ProfileRoute": RouteResourceProfile,
		"LogoutRoute":  RouteBFFLogout,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}
