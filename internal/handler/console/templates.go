package console

import (
	"html/template"

	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/dashboard"
)

var funcs = template.FuncMap{
	"stockLabel":   catalog.StockLabel,
	"formatNumber": dashboard.FormatNumber,
	"price":        formatPrice,
}

const layout = `{{define "layout"}}<!doctype html>
<html lang="es">
<head><meta charset="utf-8"><title>{{.Title}} · Buy n Large</title></head>
<body>
{{if .User}}<nav>
<a href="/">Asistente</a> · <a href="/productos">Productos</a> · <a href="/dashboard">Dashboard</a>
<form method="post" action="/logout" style="display:inline"><span>{{.User.Name}}</span> <button>Cerrar sesión</button></form>
</nav>{{end}}
<main>{{template "content" .}}</main>
</body>
</html>{{end}}`

var pages = map[string]*template.Template{
	"login": template.Must(template.New("login").Funcs(funcs).Parse(layout + `{{define "content"}}
<h1>Buy n Large</h1>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Contraseña <input type="password" name="password" required></label>
<button>Iniciar sesión</button>
</form>{{end}}`)),

	"chat": template.Must(template.New("chat").Funcs(funcs).Parse(layout + `{{define "content"}}
<h1>Asistente Virtual</h1>
<ol id="log"></ol>
<form id="composer"><input id="text" autocomplete="off" placeholder="Escribe tu mensaje..."><button id="send">Enviar</button></form>
<ul id="toasts"></ul>
<script>
const log = document.getElementById("log"), text = document.getElementById("text"), send = document.getElementById("send");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/chat");
ws.onmessage = (ev) => {
  const frame = JSON.parse(ev.data);
  if (frame.type !== "snapshot") return;
  log.innerHTML = "";
  for (const m of frame.data.messages) {
    const li = document.createElement("li");
    const at = new Date(m.timestamp);
    li.textContent = (m.sender === "user" ? "Tú" : "Asistente BnL") + " (" + at.toTimeString().slice(0, 5) + "): " + m.content;
    log.appendChild(li);
  }
  const busy = frame.data.phase !== "ready" || frame.data.sending;
  text.disabled = busy; send.disabled = busy;
};
document.getElementById("composer").onsubmit = (ev) => {
  ev.preventDefault();
  if (!text.value.trim()) return;
  ws.send(JSON.stringify({type: "submit", text: text.value}));
  text.value = "";
};
const events = new EventSource("/events");
events.addEventListener("notification", (ev) => {
  const n = JSON.parse(ev.data), li = document.createElement("li");
  li.textContent = n.title + ": " + n.description;
  document.getElementById("toasts").appendChild(li);
  setTimeout(() => li.remove(), {{.ToastMillis}});
});
</script>{{end}}`)),

	"products": template.Must(template.New("products").Funcs(funcs).Parse(layout + `{{define "content"}}
<h1>Productos</h1>
{{if not .Remote}}<p role="alert">Mostrando productos de ejemplo.</p>{{end}}
<form method="get" action="/productos"><input name="q" value="{{.Query}}" placeholder="Buscar productos"><button>Buscar</button></form>
<p><a href="/productos">Todos</a> · <a href="/productos?rec=high">Recomendados</a> · <a href="/productos?rec=medium">Populares</a> · <a href="/productos?rec=low">Últimas unidades</a></p>
{{if not .Products}}<p>No se encontraron productos</p>{{end}}
<ul>{{range .Products}}
<li><img src="{{.Image}}" alt="{{.Name}}" width="150"> <strong>{{.Name}}</strong> · {{.Brand}} · {{price .Price}} · {{stockLabel .Stock}}
<button onclick="fetch('/api/favorites/{{.ID}}',{method:'POST'}).then(()=>location.reload())">{{if index $.Favorites .ID}}♥{{else}}♡{{end}}</button>
<p>{{.Description}}</p></li>{{end}}
</ul>{{end}}`)),

	"dashboard": template.Must(template.New("dashboard").Funcs(funcs).Parse(layout + `{{define "content"}}
<h1>Dashboard</h1>
{{if not .Remote}}<p role="alert">Mostrando datos de ejemplo.</p>{{end}}
<p>{{range .Frames}}<a href="/dashboard?period={{.}}">{{.Label}}</a> {{end}}</p>
<p>Unidades en inventario: {{formatNumber .Stats.TotalUnits}} · Valor: ${{formatNumber .Stats.TotalValue}}</p>
<h2>Inventario por marca</h2>
<table>{{range .Stats.Inventory}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>{{end}}</table>
<h2>Categorías</h2>
<table>{{range .Stats.Categories}}<tr><td>{{.Categoria}}</td><td>{{.Cantidad}}</td><td>${{formatNumber .Valor}}</td></tr>{{end}}</table>
<h2>Ventas del periodo</h2>
<table>{{range .Stats.PeriodSales}}<tr><td>{{.Name}}</td><td>${{formatNumber .Value}}</td></tr>{{end}}</table>{{end}}`)),

	"notfound": template.Must(template.New("notfound").Funcs(funcs).Parse(layout + `{{define "content"}}
<h1>404</h1>
<p>Lo sentimos, la página que estás buscando no existe.</p>
<a href="/">Volver al inicio</a>{{end}}`)),
}
