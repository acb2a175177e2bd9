package webgl

// viewerPage is the self-contained WebGL scene served at /. It keeps a
// websocket to the adapter: mesh buffers arrive once, camera updates
// per frame, and pointer input is sent back as drag/pan/scroll events.
const viewerPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>meshview</title>
<style>
  html, body { margin: 0; height: 100%; overflow: hidden; background: #0f1219; }
  canvas { width: 100%; height: 100%; display: block; }
</style>
</head>
<body>
<canvas id="view"></canvas>
<script>
"use strict";

const canvas = document.getElementById("view");
const gl = canvas.getContext("webgl");

const vertexShaderSrc = ` + "`" + `
attribute vec3 aPosition;
attribute vec3 aNormal;
uniform mat4 uProjection;
uniform mat4 uView;
varying vec3 vNormal;
void main() {
  vNormal = aNormal;
  gl_Position = uProjection * uView * vec4(aPosition, 1.0);
}
` + "`" + `;

const fragmentShaderSrc = ` + "`" + `
precision mediump float;
uniform vec3 uColor;
uniform vec3 uLightDir;
uniform float uFlat;
varying vec3 vNormal;
void main() {
  float intensity = max(0.3, abs(dot(normalize(vNormal), uLightDir)));
  vec3 shaded = uColor * intensity;
  gl_FragColor = vec4(mix(shaded, uColor, uFlat), 1.0);
}
` + "`" + `;

function compile(type, src) {
  const s = gl.createShader(type);
  gl.shaderSource(s, src);
  gl.compileShader(s);
  if (!gl.getShaderParameter(s, gl.COMPILE_STATUS)) {
    throw new Error(gl.getShaderInfoLog(s));
  }
  return s;
}

const program = gl.createProgram();
gl.attachShader(program, compile(gl.VERTEX_SHADER, vertexShaderSrc));
gl.attachShader(program, compile(gl.FRAGMENT_SHADER, fragmentShaderSrc));
gl.linkProgram(program);
gl.useProgram(program);

const aPosition = gl.getAttribLocation(program, "aPosition");
const aNormal = gl.getAttribLocation(program, "aNormal");
const uProjection = gl.getUniformLocation(program, "uProjection");
const uView = gl.getUniformLocation(program, "uView");
const uColor = gl.getUniformLocation(program, "uColor");
const uLightDir = gl.getUniformLocation(program, "uLightDir");
const uFlat = gl.getUniformLocation(program, "uFlat");

const positionBuffer = gl.createBuffer();
const normalBuffer = gl.createBuffer();
const edgeBuffer = gl.createBuffer();
let triangleVertices = 0;
let edgeVertices = 0;

let camera = null;

function perspective(fovy, aspect, near, far) {
  const f = 1.0 / Math.tan(fovy / 2);
  const nf = 1 / (near - far);
  return new Float32Array([
    f / aspect, 0, 0, 0,
    0, f, 0, 0,
    0, 0, (far + near) * nf, -1,
    0, 0, 2 * far * near * nf, 0,
  ]);
}

function sub(a, b) { return [a[0] - b[0], a[1] - b[1], a[2] - b[2]]; }
function cross(a, b) {
  return [a[1] * b[2] - a[2] * b[1], a[2] * b[0] - a[0] * b[2], a[0] * b[1] - a[1] * b[0]];
}
function normalize(v) {
  const len = Math.hypot(v[0], v[1], v[2]) || 1;
  return [v[0] / len, v[1] / len, v[2] / len];
}
function dot(a, b) { return a[0] * b[0] + a[1] * b[1] + a[2] * b[2]; }

function lookAt(eye, target, up) {
  const z = normalize(sub(eye, target));
  const x = normalize(cross(up, z));
  const y = cross(z, x);
  return new Float32Array([
    x[0], y[0], z[0], 0,
    x[1], y[1], z[1], 0,
    x[2], y[2], z[2], 0,
    -dot(x, eye), -dot(y, eye), -dot(z, eye), 1,
  ]);
}

function resize() {
  canvas.width = canvas.clientWidth * (window.devicePixelRatio || 1);
  canvas.height = canvas.clientHeight * (window.devicePixelRatio || 1);
  gl.viewport(0, 0, canvas.width, canvas.height);
  draw();
}

function draw() {
  gl.clearColor(0.059, 0.071, 0.098, 1.0);
  gl.clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT);
  gl.enable(gl.DEPTH_TEST);
  if (!camera) return;

  const aspect = canvas.width / Math.max(1, canvas.height);
  gl.uniformMatrix4fv(uProjection, false, perspective(camera.fov, aspect, 0.01, 1000));
  gl.uniformMatrix4fv(uView, false, lookAt(camera.position, camera.target, camera.up));
  gl.uniform3fv(uLightDir, normalize(sub(camera.target, camera.position)));

  const solid = camera.mode.indexOf("solid") === 0;
  const edges = camera.mode.indexOf("wireframe") >= 0;

  if (solid && triangleVertices > 0) {
    gl.bindBuffer(gl.ARRAY_BUFFER, positionBuffer);
    gl.enableVertexAttribArray(aPosition);
    gl.vertexAttribPointer(aPosition, 3, gl.FLOAT, false, 0, 0);
    gl.bindBuffer(gl.ARRAY_BUFFER, normalBuffer);
    gl.enableVertexAttribArray(aNormal);
    gl.vertexAttribPointer(aNormal, 3, gl.FLOAT, false, 0, 0);
    gl.uniform3f(uColor, 0.39, 0.47, 0.78);
    gl.uniform1f(uFlat, 0.0);
    gl.drawArrays(gl.TRIANGLES, 0, triangleVertices);
  }

  if (edges && edgeVertices > 0) {
    gl.bindBuffer(gl.ARRAY_BUFFER, edgeBuffer);
    gl.enableVertexAttribArray(aPosition);
    gl.vertexAttribPointer(aPosition, 3, gl.FLOAT, false, 0, 0);
    gl.disableVertexAttribArray(aNormal);
    gl.vertexAttrib3f(aNormal, 0, 0, 1);
    if (camera.mode === "wireframe") {
      gl.uniform3f(uColor, 0.78, 0.78, 0.78);
    } else {
      gl.uniform3f(uColor, 0.1, 0.1, 0.35);
    }
    gl.uniform1f(uFlat, 1.0);
    gl.drawArrays(gl.LINES, 0, edgeVertices);
  }
}

const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (event) => {
  const msg = JSON.parse(event.data);
  if (msg.type === "mesh") {
    gl.bindBuffer(gl.ARRAY_BUFFER, positionBuffer);
    gl.bufferData(gl.ARRAY_BUFFER, new Float32Array(msg.positions), gl.STATIC_DRAW);
    gl.bindBuffer(gl.ARRAY_BUFFER, normalBuffer);
    gl.bufferData(gl.ARRAY_BUFFER, new Float32Array(msg.normals), gl.STATIC_DRAW);
    gl.bindBuffer(gl.ARRAY_BUFFER, edgeBuffer);
    gl.bufferData(gl.ARRAY_BUFFER, new Float32Array(msg.edges || []), gl.STATIC_DRAW);
    triangleVertices = msg.positions.length / 3;
    edgeVertices = (msg.edges || []).length / 3;
    draw();
  } else if (msg.type === "camera") {
    camera = msg;
    draw();
  }
};

let dragging = false;
let lastX = 0, lastY = 0;

canvas.addEventListener("mousedown", (e) => {
  dragging = true;
  lastX = e.clientX;
  lastY = e.clientY;
});
window.addEventListener("mouseup", () => { dragging = false; });
window.addEventListener("mousemove", (e) => {
  if (!dragging || ws.readyState !== WebSocket.OPEN) return;
  const type = e.shiftKey ? "pan" : "drag";
  ws.send(JSON.stringify({ type: type, dx: e.clientX - lastX, dy: e.clientY - lastY }));
  lastX = e.clientX;
  lastY = e.clientY;
});
canvas.addEventListener("wheel", (e) => {
  e.preventDefault();
  if (ws.readyState !== WebSocket.OPEN) return;
  ws.send(JSON.stringify({ type: "scroll", dx: 0, dy: -e.deltaY / 100 }));
}, { passive: false });

window.addEventListener("resize", resize);
resize();
</script>
</body>
</html>
`
