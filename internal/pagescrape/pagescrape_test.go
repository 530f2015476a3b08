package pagescrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const pageURL = "https://game-rainbow6.ubi.com/en-us/home"

const landingHTML = `<html><body>
<header><nav><button class="btn">LOG IN</button></nav></header>
<main><h1>Rainbow Six Siege</h1></main>
<div class="footer-legal rs-atom-box">
  <p>© 2019 Ubisoft Entertainment.</p>
  <p>All Rights Reserved.</p>
  <span>v2.3.1</span>
</div>
</body></html>`

const loginHTML = `<html><body><form>
<input id="AuthEmail" type="email">
<input id="AuthPassword" type="password">
<input id="RememberMe" type="checkbox">
<button id="LogInButton">Log in</button>
</form></body></html>`

const statsHTML = `<html><body>
<div class="search"><a href="#search">Search player</a></div>
<div class="footer-legal rs-atom-box">Legal notice<br>1.4.0</div>
</body></html>`

const gridHTML = `<html><body>
<section data-side="attackers">
  <a class="operator-card" href="/en-us/operators/ash"><img src="/img/ash.png" alt="Ash"><span class="operator-name">ASH</span></a>
  <a class="operator-card" href="/en-us/operators/thermite/"><img data-src="/img/thermite.png"><span class="operator-name">Thermite</span></a>
  <div class="operator-card" data-id="sledge"><figure><img src="/img/sledge.png"><figcaption>Sledge</figcaption></figure></div>
</section>
<section data-side="defenders">
  <figure data-operator="smoke"><img src="https://cdn.example.com/smoke.png"><figcaption>Smoke</figcaption></figure>
  <figure data-operator="mute"><img src="/img/mute.png"><figcaption>Mute</figcaption></figure>
  <figure data-operator="mute"><img src="/img/mute.png"><figcaption>Mute again</figcaption></figure>
</section>
</body></html>`

func mustParse(t *testing.T, html string) Page {
	t.Helper()
	doc, err := ParseHTML(html)
	require.NoError(t, err)
	return Extract(doc, pageURL)
}

func TestClassifyLanding(t *testing.T) {
	p := mustParse(t, landingHTML)
	require.Equal(t, LayoutLanding, p.Layout)
	require.True(t, p.HasLoginButton)
	require.Equal(t, "v2.3.1", p.Version)
}

func TestClassifyLogin(t *testing.T) {
	p := mustParse(t, loginHTML)
	require.Equal(t, LayoutLogin, p.Layout)
	require.Equal(t, []string{"AuthEmail", "AuthPassword", "RememberMe", "LogInButton"}, p.LoginFields)
}

func TestClassifyStats(t *testing.T) {
	p := mustParse(t, statsHTML)
	require.Equal(t, LayoutStats, p.Layout)
	require.True(t, p.HasSearch)
	require.Equal(t, "1.4.0", p.Version)
}

func TestStatsPageCollectsOperatorCards(t *testing.T) {
	p := mustParse(t, `<html><body>
<div class="search"><a href="#search">Search player</a></div>
<ul class="operators">
  <li data-operator="ash" data-side="atk"><img src="/img/ash.png"><span class="operator-name">Ash</span></li>
  <li data-operator="smoke" data-side="def"><img src="/img/smoke.png"><span class="operator-name">Smoke</span></li>
</ul>
<div class="footer-legal rs-atom-box">Legal notice<br>1.4.0</div>
</body></html>`)

	require.Equal(t, LayoutStats, p.Layout)
	require.Len(t, p.Operators, 2)
	require.Equal(t, []string{"ash", "smoke"}, []string{p.Operators[0].ID, p.Operators[1].ID})
	require.Equal(t, "Ash", p.Operators[0].Name)
}

func TestClassifyStatsWithoutCards(t *testing.T) {
	require.Empty(t, mustParse(t, statsHTML).Operators)
}

func TestClassifyOperatorGrid(t *testing.T) {
	p := mustParse(t, gridHTML)
	require.Equal(t, LayoutOperatorGrid, p.Layout)

	require.Equal(t, []OperatorCard{
		{ID: "ash", Name: "ASH", Image: "https://game-rainbow6.ubi.com/img/ash.png", Category: "atk"},
		{ID: "thermite", Name: "Thermite", Image: "https://game-rainbow6.ubi.com/img/thermite.png", Category: "atk"},
		{ID: "sledge", Name: "Sledge", Image: "https://game-rainbow6.ubi.com/img/sledge.png", Category: "atk"},
		{ID: "smoke", Name: "Smoke", Image: "https://cdn.example.com/smoke.png", Category: "def"},
		{ID: "mute", Name: "Mute", Image: "https://game-rainbow6.ubi.com/img/mute.png", Category: "def"},
	}, p.Operators)
}

func TestClassifyUnknown(t *testing.T) {
	p := mustParse(t, `<html><body><p>maintenance</p></body></html>`)
	require.Equal(t, LayoutUnknown, p.Layout)
	require.Empty(t, p.Version)
}

func TestVersionFallsBackToFooterPattern(t *testing.T) {
	doc, err := ParseHTML(`<html><body><footer>Siege Y4S3 build 4.3.0.12 – all rights reserved</footer></body></html>`)
	require.NoError(t, err)
	require.Equal(t, "4.3.0.12", Version(doc))
}

func TestScoreGridOverStats(t *testing.T) {
	// Two cards plus a footer and no login button: grid scores 3, stats 2.
	doc, err := ParseHTML(`<html><body>
<div class="operator-card" data-id="a"></div><div class="operator-card" data-id="b"></div>
<div class="footer-legal">x</div></body></html>`)
	require.NoError(t, err)

	scores := Score(doc)
	require.Equal(t, 3, scores[LayoutOperatorGrid])
	require.Equal(t, 2, scores[LayoutStats])
	require.Equal(t, LayoutOperatorGrid, Classify(doc))
}

func TestScoreTieGoesToEarlierLayout(t *testing.T) {
	doc, err := ParseHTML(`<html><body><div class="footer-legal">legal</div></body></html>`)
	require.NoError(t, err)

	scores := Score(doc)
	require.Equal(t, scores[LayoutLanding], scores[LayoutStats])
	require.Equal(t, LayoutLanding, Classify(doc))
}

func TestLayoutString(t *testing.T) {
	require.Equal(t, "operator-grid", LayoutOperatorGrid.String())
	require.Equal(t, "unknown", Layout(42).String())
}
